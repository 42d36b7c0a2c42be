package cmd

import (
	"context"
	"flag"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type showPortfolioCmd struct {
	base string
}

func (*showPortfolioCmd) Name() string     { return "show-portfolio" }
func (*showPortfolioCmd) Synopsis() string { return "display the wallets of the current user and their value" }
func (*showPortfolioCmd) Usage() string {
	return `vtrade show-portfolio [-base <currency>]

  Values every wallet of the logged in user at the current rates.
`
}

func (c *showPortfolioCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "valuation currency (defaults to the configured base currency)")
}

func (c *showPortfolioCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	user, err := a.sessions.CurrentUser()
	if err != nil {
		return fail(err)
	}
	v, err := a.ledger.Value(user, a.baseOrDefault(c.base))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderPortfolio(renderer.NewPortfolio(user.Username, v, time.Now())))
	return subcommands.ExitSuccess
}

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	currency string
	amount   float64
	base     string
}

func (t *tradeFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&t.currency, "currency", "", "currency code to trade")
	f.Float64Var(&t.amount, "amount", 0, "amount of currency to trade, positive")
	f.StringVar(&t.base, "base", "", "currency paid or received (defaults to the configured base currency)")
}

type tradeFunc func(l *valutatrade.Ledger, u valutatrade.User, currency string, amount float64, base string) (valutatrade.Trade, error)

func (t *tradeFlags) execute(f *flag.FlagSet, trade tradeFunc) subcommands.ExitStatus {
	if f.NArg() != 0 || t.currency == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	user, err := a.sessions.CurrentUser()
	if err != nil {
		return fail(err)
	}
	receipt, err := trade(a.ledger, user, t.currency, t.amount, a.baseOrDefault(t.base))
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderTrade(renderer.NewTrade(receipt)))
	return subcommands.ExitSuccess
}

type buyCmd struct{ tradeFlags }

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "buy a currency at the current rate" }
func (*buyCmd) Usage() string {
	return `vtrade buy -currency <code> -amount <amount> [-base <currency>]

  Credits the wallet of the currency, creating it if needed, and reports
  the cost in the base currency.
`
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(f, (*valutatrade.Ledger).Buy)
}

type sellCmd struct{ tradeFlags }

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell a currency at the current rate" }
func (*sellCmd) Usage() string {
	return `vtrade sell -currency <code> -amount <amount> [-base <currency>]

  Debits the wallet of the currency and reports the revenue in the base
  currency. The wallet must exist and hold enough funds.
`
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.execute(f, (*valutatrade.Ledger).Sell)
}
