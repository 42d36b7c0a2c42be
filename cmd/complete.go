package cmd

import (
	"flag"

	"github.com/etnz/valutatrade"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the commands registered in c,
// with top level flags taken from top.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	codes := predict.Set(codeStrings(valutatrade.DefaultRegistry().Codes()))
	root := &complete.Command{
		Sub:   map[string]*complete.Command{},
		Flags: flagPredictors(top, codes),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: flagPredictors(fs, codes)}
	})
	return root
}

func flagPredictors(fs *flag.FlagSet, codes predict.Set) map[string]complete.Predictor {
	m := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			m[f.Name] = nil
			return
		}
		switch f.Name {
		case "currency", "base", "from", "to":
			m[f.Name] = codes
		case "source":
			m[f.Name] = predict.Set{sourceCoinGecko, sourceExchangeRate}
		case "config", "env-file":
			m[f.Name] = predict.Files("*")
		default:
			m[f.Name] = predict.Something
		}
	})
	return m
}

func codeStrings(codes []valutatrade.CurrencyCode) []string {
	s := make([]string, len(codes))
	for i, c := range codes {
		s[i] = string(c)
	}
	return s
}
