package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

type formatLedgerCmd struct {
	output string
}

func (*formatLedgerCmd) Name() string     { return "format-ledger" }
func (*formatLedgerCmd) Synopsis() string { return "formats the ledger file into a canonical form" }
func (*formatLedgerCmd) Usage() string {
	return `format-ledger [-o <file>]:
  formats the ledger file into a canonical form: one line per transaction,
  grouped by holding, fields in a stable order.
`
}

func (p *formatLedgerCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.output, "o", "", "Output file, '-' for stdout. Defaults to the ledger file itself")
}

func (p *formatLedgerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := setup()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	// 1. Read the ledger
	ledger, err := a.DecodeLedger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error decoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	// 2. Write it back
	if p.output == "-" {
		if err := folio.EncodeLedger(out, ledger); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding ledger: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}
	filename := p.output
	if filename == "" {
		filename = a.cfg.Ledger
	}
	if err := encodeLedger(filename, ledger); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding ledger: %v\n", err)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(out, "Ledger file '%s' has been formatted.\n", filename)
	return subcommands.ExitSuccess
}

// encodeLedger writes the ledger to filename, replacing its content.
func encodeLedger(filename string, ledger *folio.Ledger) error {
	f, err := os.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q for writing: %w", filename, err)
	}
	defer f.Close()

	return folio.EncodeLedger(f, ledger)
}
