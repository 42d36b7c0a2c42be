package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/google/subcommands"
)

type updateRatesCmd struct {
	source string
}

func (*updateRatesCmd) Name() string     { return "update-rates" }
func (*updateRatesCmd) Synopsis() string { return "fetch the current rates from the providers" }
func (*updateRatesCmd) Usage() string {
	return `vtrade update-rates [-source coingecko|exchangerate]

  Fetches rates from every provider, or only -source, records them in the
  history and replaces the snapshot. A failing provider is reported in the
  action log and does not prevent the others from being recorded.
`
}

func (c *updateRatesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "", "only query this provider (coingecko, exchangerate)")
}

func (c *updateRatesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	up, err := a.updater(c.source)
	if err != nil {
		return fail(err)
	}
	n, err := up.RunUpdate(ctx)
	if err != nil {
		return fail(err)
	}
	if n == 0 {
		fmt.Fprintf(os.Stderr, "No rate could be fetched, see %s for details.\n", a.logFile.Name())
		return subcommands.ExitFailure
	}
	snap, err := a.store.ReadSnapshot()
	if err != nil {
		return fail(err)
	}
	fmt.Printf("Update successful. Total rates updated: %d. Last refresh: %s\n", n, valutatrade.FormatTimestamp(snap.LastRefresh))
	return subcommands.ExitSuccess
}

type schedulerCmd struct {
	interval int
	source   string
}

func (*schedulerCmd) Name() string     { return "scheduler" }
func (*schedulerCmd) Synopsis() string { return "update the rates periodically" }
func (*schedulerCmd) Usage() string {
	return `vtrade scheduler [-interval <seconds>] [-source coingecko|exchangerate]

  Updates the rates immediately, then once per interval, until interrupted.
  An update in progress is always completed.
`
}

func (c *schedulerCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.interval, "interval", 0, "seconds between updates (defaults to the configured interval)")
	f.StringVar(&c.source, "source", "", "only query this provider (coingecko, exchangerate)")
}

func (c *schedulerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 || c.interval < 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	up, err := a.updater(c.source)
	if err != nil {
		return fail(err)
	}
	interval := a.settings.UpdateInterval
	if c.interval > 0 {
		interval = time.Duration(c.interval) * time.Second
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Updating rates every %v, press Ctrl+C to stop.\n", interval)
	if err := valutatrade.NewScheduler(up, interval, a.logger).Run(ctx); err != nil {
		return fail(err)
	}
	fmt.Println("Scheduler stopped.")
	return subcommands.ExitSuccess
}
