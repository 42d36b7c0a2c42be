package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/etnz/valutatrade/api"
	"github.com/google/subcommands"
)

type serveCmd struct {
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the current rates over HTTP" }
func (*serveCmd) Usage() string {
	return `vtrade serve [-addr <host:port>]

  Serves GET /health, GET /rates and GET /rates/{from}/{to} until
  interrupted. Requests are rate limited per client.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", ":8080", "listen address")
}

func (c *serveCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := openApp()
	if err != nil {
		return fail(err)
	}
	defer a.Close()

	lim, err := api.NewLimiter(a.settings.APIRateLimit)
	if err != nil {
		return fail(fmt.Errorf("invalid API rate limit %q: %w", a.settings.APIRateLimit, err))
	}
	handler := api.NewRouter(api.NewRateHandler(a.store, a.resolver, a.currencies, a.logger), lim, a.logger)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("Serving rates on %s\n", c.addr)
	if err := api.Serve(ctx, c.addr, handler, a.logger); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}
