package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type taxCmd struct {
	price    string
	quantity int64
	market   string
}

func (*taxCmd) Name() string     { return "tax" }
func (*taxCmd) Synopsis() string { return "compute the transaction tax of a sale" }
func (*taxCmd) Usage() string {
	return `folio tax -p <price> -q <quantity> -m <market>

  Prints the transaction tax due when selling quantity shares at price.
`
}

func (c *taxCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "p", "", "Price per share")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
	f.StringVar(&c.market, "m", "KOSPI", "Market")
}

func (c *taxCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.price == "" || c.quantity <= 0 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	price, err := parseAmount("price", c.price)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	market, err := folio.ParseMarket(c.market)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	tax := folio.SellTax(price, folio.Q(c.quantity), market)
	fmt.Fprintf(out, "Tax on selling %d at %s on %s: %s\n", c.quantity, folio.FormatAmount(price, market), market, tax)
	return subcommands.ExitSuccess
}
