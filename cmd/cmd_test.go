package cmd

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/config"
	"github.com/google/subcommands"
)

// setup points the configuration at a temporary directory and returns the
// data directory.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "data")
	t.Setenv(config.DataDir, data)
	t.Setenv(config.LogDir, filepath.Join(dir, "logs"))
	*envFile = filepath.Join(dir, "missing.env")
	*rawMarkdown = true
	return data
}

func run(t *testing.T, c subcommands.Command, args ...string) subcommands.ExitStatus {
	t.Helper()
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	c.SetFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("%s %v: %v", c.Name(), args, err)
	}
	return c.Execute(context.Background(), fs)
}

func TestTradingSession(t *testing.T) {
	data := setup(t)
	store := valutatrade.NewStore(data)
	err := store.WriteSnapshot(map[valutatrade.RatePair]valutatrade.SnapshotEntry{
		valutatrade.NewRatePair("BTC", "USD"): {Rate: 60000, UpdatedAt: time.Now(), Source: "CoinGecko"},
	}, time.Now())
	if err != nil {
		t.Fatal(err)
	}

	steps := []struct {
		cmd  subcommands.Command
		args []string
		want subcommands.ExitStatus
	}{
		{&buyCmd{}, []string{"-currency", "BTC", "-amount", "1"}, subcommands.ExitFailure}, // not logged in
		{&registerCmd{}, []string{"-username", "alice", "-password", "1234"}, subcommands.ExitSuccess},
		{&registerCmd{}, []string{"-username", "alice", "-password", "1234"}, subcommands.ExitFailure},
		{&loginCmd{}, []string{"-username", "alice", "-password", "wrong"}, subcommands.ExitFailure},
		{&loginCmd{}, []string{"-username", "alice", "-password", "1234"}, subcommands.ExitSuccess},
		{&buyCmd{}, []string{"-currency", "btc", "-amount", "0.5"}, subcommands.ExitSuccess},
		{&sellCmd{}, []string{"-currency", "BTC", "-amount", "1"}, subcommands.ExitFailure},
		{&sellCmd{}, []string{"-currency", "ETH", "-amount", "1"}, subcommands.ExitFailure},
		{&sellCmd{}, []string{"-currency", "BTC", "-amount", "0.2"}, subcommands.ExitSuccess},
		{&showPortfolioCmd{}, nil, subcommands.ExitSuccess},
		{&getRateCmd{}, []string{"-from", "USD", "-to", "BTC"}, subcommands.ExitSuccess},
		{&getRateCmd{}, []string{"-from", "USD"}, subcommands.ExitUsageError},
		{&showRatesCmd{}, []string{"-top", "1"}, subcommands.ExitSuccess},
		{&currenciesCmd{}, nil, subcommands.ExitSuccess},
		{&logoutCmd{}, nil, subcommands.ExitSuccess},
		{&showPortfolioCmd{}, nil, subcommands.ExitFailure},
	}
	for i, s := range steps {
		if got := run(t, s.cmd, s.args...); got != s.want {
			t.Fatalf("step %d: %s %v = %v, want %v", i, s.cmd.Name(), s.args, got, s.want)
		}
	}

	p, err := store.Portfolio(1)
	if err != nil {
		t.Fatal(err)
	}
	w, ok := p.Wallet("BTC")
	if !ok {
		t.Fatal("BTC wallet not found")
	}
	if got, want := w.Balance(), 0.3; got != want {
		t.Errorf("BTC balance = %v, want %v", got, want)
	}
}

func TestUpdateRatesUnknownSource(t *testing.T) {
	setup(t)
	if got := run(t, &updateRatesCmd{}, "-source", "yahoo"); got != subcommands.ExitFailure {
		t.Errorf("update-rates -source yahoo = %v, want ExitFailure", got)
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{&valutatrade.Error{Kind: valutatrade.KindInsufficientFunds, Currency: "BTC", Amount: 1, Available: 0.5},
			"Insufficient funds: available 0.5 BTC, requested 1 BTC"},
		{&valutatrade.Error{Kind: valutatrade.KindWalletNotFound, Currency: "ETH"}, "You have no ETH wallet"},
		{&valutatrade.Error{Kind: valutatrade.KindRateUnavailable, Pair: valutatrade.NewRatePair("BTC", "SOL")}, "BTC_SOL"},
		{&valutatrade.Error{Kind: valutatrade.KindCurrencyNotFound, Currency: "XYZ"}, "Unknown currency XYZ"},
		{fmt.Errorf("loading: %w", &valutatrade.Error{Kind: valutatrade.KindStaleRate, Pair: valutatrade.NewRatePair("EUR", "USD")}), "update-rates"},
		{errors.New("disk full"), "Error: disk full"},
	}
	for _, tt := range tests {
		if got := message(tt.err); !strings.Contains(got, tt.want) {
			t.Errorf("message(%v) = %q, want it to contain %q", tt.err, got, tt.want)
		}
	}
}

func TestCompletion(t *testing.T) {
	commander := subcommands.NewCommander(flag.NewFlagSet("vtrade", flag.ContinueOnError), "vtrade")
	Register(commander)
	top := flag.NewFlagSet("vtrade", flag.ContinueOnError)
	top.String("config", "", "")
	top.Bool("raw", false, "")

	c := Completion(commander, top)
	if _, ok := c.Flags["config"]; !ok {
		t.Errorf("missing -config completion")
	}
	if p, ok := c.Flags["raw"]; !ok || p != nil {
		t.Errorf("-raw completion = %v, %v, want a flag without value", p, ok)
	}
	buy, ok := c.Sub["buy"]
	if !ok {
		t.Fatal("missing buy completion")
	}
	if got := buy.Flags["currency"].Predict(""); !contains(got, "BTC") {
		t.Errorf("buy -currency predicts %v, want BTC among them", got)
	}
}

func TestFprintMarkdownRaw(t *testing.T) {
	var b bytes.Buffer
	fprintMarkdown(&b, "# Title\n", true)
	if got, want := b.String(), "# Title\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
