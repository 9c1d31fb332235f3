// Command folio records trades in a ledger and reports on the portfolio.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/folio"
	"github.com/etnz/folio/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// exits when invoked by the shell completion.
	completion().Complete("folio")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command line for shell completion.
func completion() *complete.Command {
	var markets predict.Set
	for _, m := range folio.Markets {
		markets = append(markets, m.String())
	}
	trade := &complete.Command{Flags: map[string]complete.Predictor{
		"t":   predict.Something,
		"m":   markets,
		"p":   predict.Something,
		"q":   predict.Something,
		"fee": predict.Something,
		"tax": predict.Something,
		"d":   predict.Something,
	}}
	sell := &complete.Command{Flags: map[string]complete.Predictor{"f": predict.Nothing}}
	for k, v := range trade.Flags {
		sell.Flags[k] = v
	}

	return &complete.Command{
		Sub: map[string]*complete.Command{
			"buy":           trade,
			"sell":          sell,
			"format-ledger": {Flags: map[string]complete.Predictor{"o": predict.Files("*.jsonl")}},
			"holding":       {Flags: map[string]complete.Predictor{"t": predict.Something, "offline": predict.Nothing}},
			"summary":       {Flags: map[string]complete.Predictor{"closed": predict.Nothing, "offline": predict.Nothing}},
			"tax":           {Flags: map[string]complete.Predictor{"p": predict.Something, "q": predict.Something, "m": markets}},
			"watch":         {Flags: map[string]complete.Predictor{"t": predict.Something}},
			"serve":         {Flags: map[string]complete.Predictor{"addr": predict.Something}},
			"help":          {},
			"flags":         {},
		},
		Flags: map[string]complete.Predictor{
			"config":      predict.Files("*.yaml"),
			"env":         predict.Files("*"),
			"ledger-file": predict.Files("*.jsonl"),
			"backend-url": predict.Something,
			"v":           predict.Nothing,
			"md":          predict.Nothing,
		},
	}
}
