package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"unicode"

	"github.com/etnz/folio"
	"github.com/etnz/folio/live"
	"github.com/etnz/folio/renderer"
	"github.com/google/subcommands"
)

// in is where watch reads ticker sets from.
var in io.Reader = os.Stdin

type watchCmd struct {
	tickers string
}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "display live quotes of a set of tickers" }
func (*watchCmd) Usage() string {
	return `folio watch [-t <tickers>]

  Displays the quotes of a set of tickers, refreshed every time the set
  changes. Each line read from the standard input replaces the set; tickers
  are separated by commas or spaces. The set defaults to the open holdings
  of the ledger.
`
}

func (c *watchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.tickers, "t", "", "Initial comma separated tickers")
}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	markets := make(map[string]folio.Market)
	var open []string
	for _, p := range ledger.Positions() {
		markets[p.Ticker] = p.Market
		if !p.Stats.Closed() {
			open = append(open, p.Ticker)
		}
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	// changed is a signal only: the latest snapshot is read from the binding.
	changed := make(chan struct{}, 1)
	b := live.New(a.Quotes(), live.WithLogger(a.log), live.OnChange(func(*live.Snapshot) {
		select {
		case changed <- struct{}{}:
		default:
		}
	}))
	defer b.Close()

	var printed *live.Snapshot
	show := func() {
		s := b.Snapshot()
		if s == printed || s.State == live.Loading {
			return
		}
		printed = s
		printMarkdown(renderer.RenderBoard(renderer.NewBoard(s, markets)))
	}

	if c.tickers != "" {
		b.SetTickers(splitTickers(c.tickers))
	} else {
		b.SetTickers(open)
	}

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return subcommands.ExitSuccess
		case <-changed:
			show()
		case line, ok := <-lines:
			if !ok {
				// end of input: show the last set once it settles.
				if err := b.Await(ctx); err != nil {
					return subcommands.ExitSuccess
				}
				show()
				return subcommands.ExitSuccess
			}
			b.SetTickers(splitTickers(line))
		}
	}
}

func splitTickers(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool { return r == ',' || unicode.IsSpace(r) })
}
