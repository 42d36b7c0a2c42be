// Package cmd implements the vtrade command line application.
package cmd

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/etnz/valutatrade"
	"github.com/etnz/valutatrade/coingecko"
	"github.com/etnz/valutatrade/config"
	"github.com/etnz/valutatrade/exchangerate"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&registerCmd{}, "account")
	c.Register(&loginCmd{}, "account")
	c.Register(&logoutCmd{}, "account")

	c.Register(&showPortfolioCmd{}, "trading")
	c.Register(&buyCmd{}, "trading")
	c.Register(&sellCmd{}, "trading")

	c.Register(&currenciesCmd{}, "rates")
	c.Register(&getRateCmd{}, "rates")
	c.Register(&showRatesCmd{}, "rates")
	c.Register(&updateRatesCmd{}, "rates")
	c.Register(&schedulerCmd{}, "rates")
	c.Register(&serveCmd{}, "rates")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a TOML, YAML or JSON configuration file")
var envFile = flag.String("env-file", ".env", "Path to a dotenv file loaded into the environment")
var rawMarkdown = flag.Bool("raw", false, "Print reports as raw markdown")

// app holds the components shared by the commands.
type app struct {
	settings   *valutatrade.Settings
	logger     *slog.Logger
	store      *valutatrade.Store
	currencies *valutatrade.Registry
	resolver   *valutatrade.Resolver
	ledger     *valutatrade.Ledger
	accounts   *valutatrade.Accounts
	sessions   *valutatrade.Sessions

	logFile *os.File
}

// openApp loads the configuration and wires the components. The action log
// is appended to app.log in the log directory.
func openApp() (*app, error) {
	settings, err := config.Load(config.Options{File: *configFile, EnvFile: *envFile})
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(settings.LogDir, 0755); err != nil {
		return nil, fmt.Errorf("could not create log directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(settings.LogDir, "app.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("could not open action log: %w", err)
	}
	return newApp(settings, slog.New(slog.NewTextHandler(logFile, nil)), logFile), nil
}

func newApp(settings *valutatrade.Settings, logger *slog.Logger, logFile *os.File) *app {
	store := valutatrade.NewStore(settings.DataDir)
	currencies := valutatrade.DefaultRegistry()
	resolver := valutatrade.NewResolver(store, settings.RatesTTL)
	accounts := valutatrade.NewAccounts(store, store, logger)
	return &app{
		settings:   settings,
		logger:     logger,
		store:      store,
		currencies: currencies,
		resolver:   resolver,
		ledger:     valutatrade.NewLedger(store, resolver, currencies, logger),
		accounts:   accounts,
		sessions:   valutatrade.NewSessions(store, accounts, settings.SessionSecret, settings.SessionTTL, logger),
		logFile:    logFile,
	}
}

// Close releases the action log.
func (a *app) Close() error {
	if a.logFile == nil {
		return nil
	}
	return a.logFile.Close()
}

// Provider names accepted by -source.
const (
	sourceCoinGecko    = "coingecko"
	sourceExchangeRate = "exchangerate"
)

// updater returns an updater over the selected providers, all of them if
// source is empty.
func (a *app) updater(source string) (*valutatrade.Updater, error) {
	var providers []valutatrade.Provider
	switch source {
	case "":
		providers = append(providers, coingecko.New(*a.settings), exchangerate.New(*a.settings))
	case sourceCoinGecko:
		providers = append(providers, coingecko.New(*a.settings))
	case sourceExchangeRate:
		providers = append(providers, exchangerate.New(*a.settings))
	default:
		return nil, &valutatrade.Error{Kind: valutatrade.KindValidation, Reason: fmt.Sprintf("unknown source %q, want %s or %s", source, sourceCoinGecko, sourceExchangeRate)}
	}
	return valutatrade.NewUpdater(a.store, a.logger, providers...), nil
}

// baseOrDefault returns base, or the configured base currency if empty.
func (a *app) baseOrDefault(base string) string {
	if base == "" {
		return string(a.settings.BaseCurrency)
	}
	return base
}
