package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

type summaryCmd struct {
	closed  bool
	offline bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display a valuation of every holding with totals per currency" }
func (*summaryCmd) Usage() string {
	return `folio summary [-closed] [-offline]

  Values every open holding at its latest quote. Totals are computed per
  currency; holdings without a quote are listed but left out of the totals.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.closed, "closed", false, "Also list closed holdings")
	f.BoolVar(&c.offline, "offline", false, "Do not fetch quotes")
}

func (c *summaryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	positions := ledger.Positions()
	for _, p := range positions {
		if p.Stats.Anomalies > 0 {
			a.log.Warn().Str("ticker", p.Ticker).Int("anomalies", p.Stats.Anomalies).Msg("sells exceeded the quantity held")
		}
		metrics.RecordReplay(p.Market.String(), p.Stats.Anomalies)
	}

	p := folio.Appraise(positions, fetchQuotes(ctx, a, c.offline, positions))
	printMarkdown(renderer.RenderSummary(renderer.NewSummary(p, c.closed)))
	return subcommands.ExitSuccess
}
