package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/etnz/valutatrade"
	"github.com/google/subcommands"
)

// fail prints the user facing message of err and returns ExitFailure.
func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, message(err))
	return subcommands.ExitFailure
}

// message phrases err for the terminal.
func message(err error) string {
	var e *valutatrade.Error
	if !errors.As(err, &e) {
		return fmt.Sprintf("Error: %v", err)
	}
	switch e.Kind {
	case valutatrade.KindValidation:
		return fmt.Sprintf("Invalid input: %s", e.Reason)
	case valutatrade.KindCurrencyNotFound:
		if e.Currency == "" {
			return fmt.Sprintf("Unknown currency: %s", e.Reason)
		}
		return fmt.Sprintf("Unknown currency %s. Supported currencies: %v", e.Currency, valutatrade.DefaultRegistry().Codes())
	case valutatrade.KindWalletNotFound:
		return fmt.Sprintf("You have no %s wallet. Buy some %s first.", e.Currency, e.Currency)
	case valutatrade.KindInsufficientFunds:
		return fmt.Sprintf("Insufficient funds: available %s %s, requested %s %s",
			valutatrade.FormatAmount(e.Available), e.Currency, valutatrade.FormatAmount(e.Amount), e.Currency)
	case valutatrade.KindStaleRate:
		return fmt.Sprintf("Rate %s is outdated (updated at %s). Run 'vtrade update-rates'.", e.Pair, valutatrade.FormatTimestamp(e.UpdatedAt))
	case valutatrade.KindRateUnavailable:
		return fmt.Sprintf("Rate %s is not available. Run 'vtrade update-rates'.", e.Pair)
	case valutatrade.KindProvider:
		return fmt.Sprintf("Rate provider failure: %v", e)
	case valutatrade.KindUserNotFound:
		if e.Reason == "" {
			return "Unknown user."
		}
		return fmt.Sprintf("Unknown %s.", e.Reason)
	case valutatrade.KindUnauthenticated:
		return fmt.Sprintf("Not authenticated: %s.", e.Reason)
	case valutatrade.KindDuplicate:
		return fmt.Sprintf("Already exists: %s", e.Reason)
	}
	return fmt.Sprintf("Error: %v", e)
}
