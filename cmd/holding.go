package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/quote"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// holdingCmd holds the flags for the 'holding' subcommand.
type holdingCmd struct {
	ticker  string
	offline bool
}

func (*holdingCmd) Name() string     { return "holding" }
func (*holdingCmd) Synopsis() string { return "display the statistics and valuation of one holding" }
func (*holdingCmd) Usage() string {
	return `folio holding -t <ticker> [-offline]

  Replays the transactions of a holding and values it at its latest quote.
`
}

func (c *holdingCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.ticker, "t", "", "Ticker of the holding")
	f.BoolVar(&c.offline, "offline", false, "Do not fetch quotes, the holding is not valued")
}

func (c *holdingCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	ledger, err := a.DecodeLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	pos, ok := ledger.Position(c.ticker)
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: no transaction of %s in %s\n", c.ticker, a.cfg.Ledger)
		return subcommands.ExitFailure
	}

	p := folio.Appraise([]folio.Position{pos}, fetchQuotes(ctx, a, c.offline, []folio.Position{pos}))
	printMarkdown(renderer.RenderHolding(renderer.NewHolding(p.Appraisals[0], ledger.Transactions(c.ticker))))
	return subcommands.ExitSuccess
}

// fetchQuotes returns the quotes of positions. Reports are still printed
// when the backend fails: the positions are then unavailable.
func fetchQuotes(ctx context.Context, a *app, offline bool, positions []folio.Position) map[string]quote.Quote {
	if offline || len(positions) == 0 {
		return nil
	}
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	quotes, err := a.Quotes().Quotes(ctx, tickers)
	if err != nil {
		a.log.Warn().Err(err).Msg("cannot fetch quotes")
		return nil
	}
	return quotes
}
