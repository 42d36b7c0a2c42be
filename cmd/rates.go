package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/renderer"
	"github.com/google/subcommands"
)

type getRateCmd struct {
	from string
	to   string
}

func (*getRateCmd) Name() string     { return "get-rate" }
func (*getRateCmd) Synopsis() string { return "display the current rate between two currencies" }
func (*getRateCmd) Usage() string {
	return `vtrade get-rate -from <currency> -to <currency>

  Displays the rate of one unit of -from in -to, and its inverse. Rates
  older than the configured TTL are refused.
`
}

func (c *getRateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "source currency code")
	f.StringVar(&c.to, "to", "", "target currency code")
}

func (c *getRateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.from == "" || c.to == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	q, err := a.ledger.Rate(c.from, c.to)
	if err != nil {
		return fail(err)
	}
	printMarkdown(renderer.RenderQuote(renderer.NewQuote(q)))
	return subcommands.ExitSuccess
}

type showRatesCmd struct {
	currency string
	top      int
	base     string
	history  int
}

func (*showRatesCmd) Name() string     { return "show-rates" }
func (*showRatesCmd) Synopsis() string { return "display the stored rates" }
func (*showRatesCmd) Usage() string {
	return `vtrade show-rates [-currency <code>] [-top <n>] [-base <code>] [-history <n>]

  Lists the current snapshot with the freshness of each rate. With -history,
  lists the last n recorded observations instead.
`
}

func (c *showRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "", "only pairs involving this currency")
	f.IntVar(&c.top, "top", 0, "only the n most expensive crypto currencies")
	f.StringVar(&c.base, "base", "", "only pairs quoted in this currency")
	f.IntVar(&c.history, "history", 0, "list the last n history records")
}

func (c *showRatesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.top < 0 || c.history < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	if c.history > 0 {
		records, err := a.store.History()
		if err != nil {
			return fail(err)
		}
		printMarkdown(renderer.RenderHistory(renderer.NewHistory(records, c.history)))
		return subcommands.ExitSuccess
	}

	filter := valutatrade.RateFilter{Top: c.top}
	if c.currency != "" {
		cur, err := a.currencies.Lookup(c.currency)
		if err != nil {
			return fail(err)
		}
		filter.Currency = cur.Code
	}
	var base valutatrade.CurrencyCode
	if c.base != "" {
		cur, err := a.currencies.Lookup(c.base)
		if err != nil {
			return fail(err)
		}
		base = cur.Code
	}

	snap, err := a.store.ReadSnapshot()
	if err != nil {
		return fail(err)
	}
	var pairs []valutatrade.RatePair
	if snap != nil {
		for _, p := range snap.Select(filter, a.currencies) {
			if base == "" || p.To == base {
				pairs = append(pairs, p)
			}
		}
		if len(pairs) == 0 && (filter.Currency != "" || base != "") {
			fmt.Fprintln(os.Stderr, "No rate matches the filters.")
		}
	}
	printMarkdown(renderer.RenderRates(renderer.NewRates(snap, pairs, a.resolver.IsFresh)))
	return subcommands.ExitSuccess
}

type currenciesCmd struct{}

func (*currenciesCmd) Name() string             { return "currencies" }
func (*currenciesCmd) Synopsis() string         { return "list the supported currencies" }
func (*currenciesCmd) Usage() string            { return "vtrade currencies\n" }
func (*currenciesCmd) SetFlags(f *flag.FlagSet) {}

func (*currenciesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	currencies := valutatrade.DefaultRegistry()
	for _, code := range currencies.Codes() {
		c, err := currencies.Lookup(string(code))
		if err != nil {
			return fail(err)
		}
		fmt.Println(c.DisplayInfo())
	}
	return subcommands.ExitSuccess
}
