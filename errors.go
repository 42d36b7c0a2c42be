package valutatrade

import (
	"fmt"
	"time"
)

// Kind classifies an Error.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindCurrencyNotFound
	KindWalletNotFound
	KindInsufficientFunds
	KindStaleRate
	KindRateUnavailable
	KindProvider
	KindUserNotFound
	KindUnauthenticated
	KindDuplicate
)

var kindNames = map[Kind]string{
	KindUnknown:           "unknown",
	KindValidation:        "validation",
	KindCurrencyNotFound:  "currency not found",
	KindWalletNotFound:    "wallet not found",
	KindInsufficientFunds: "insufficient funds",
	KindStaleRate:         "stale rate",
	KindRateUnavailable:   "rate unavailable",
	KindProvider:          "provider error",
	KindUserNotFound:      "user not found",
	KindUnauthenticated:   "unauthenticated",
	KindDuplicate:         "duplicate",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is the error type returned by the ledger, the resolver, the providers
// and the user registry.
//
// It carries structured fields rather than a formatted message, so that the
// presentation layer can decide how to phrase it. Only the fields relevant to
// the Kind are set.
type Error struct {
	Kind      Kind
	Currency  CurrencyCode
	Pair      RatePair
	Amount    float64   // requested amount
	Available float64   // available balance, for KindInsufficientFunds
	UpdatedAt time.Time // rate timestamp, for KindStaleRate
	Provider  string    // for KindProvider
	Reason    string
	Err       error
}

// Sentinels to be used with errors.Is. They match any *Error of the same Kind.
var (
	ErrValidation        = &Error{Kind: KindValidation}
	ErrCurrencyNotFound  = &Error{Kind: KindCurrencyNotFound}
	ErrWalletNotFound    = &Error{Kind: KindWalletNotFound}
	ErrInsufficientFunds = &Error{Kind: KindInsufficientFunds}
	ErrStaleRate         = &Error{Kind: KindStaleRate}
	ErrRateUnavailable   = &Error{Kind: KindRateUnavailable}
	ErrProvider          = &Error{Kind: KindProvider}
	ErrUserNotFound      = &Error{Kind: KindUserNotFound}
	ErrUnauthenticated   = &Error{Kind: KindUnauthenticated}
	ErrDuplicate         = &Error{Kind: KindDuplicate}
)

func (e *Error) Error() string {
	msg := e.Kind.String()
	switch e.Kind {
	case KindCurrencyNotFound, KindWalletNotFound:
		if e.Currency != "" {
			msg += " " + string(e.Currency)
		}
	case KindInsufficientFunds:
		msg += fmt.Sprintf(" %s: requested %v, available %v", e.Currency, e.Amount, e.Available)
	case KindStaleRate:
		msg += fmt.Sprintf(" %s: updated at %s", e.Pair, e.UpdatedAt.Format(time.RFC3339))
	case KindRateUnavailable:
		if !e.Pair.IsZero() {
			msg += " " + e.Pair.String()
		}
	case KindProvider:
		if e.Provider != "" {
			msg += " " + e.Provider
		}
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is reports whether target is an *Error of the same Kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// ProviderError returns a KindProvider error for the named provider.
func ProviderError(provider string, reason string, err error) *Error {
	return &Error{Kind: KindProvider, Provider: provider, Reason: reason, Err: err}
}

func validationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Reason: fmt.Sprintf(format, args...)}
}
