// Package cmd implements the folio command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/folio"
	"github.com/etnz/folio/config"
	"github.com/etnz/folio/quote"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&buyCmd{}, "ledger")
	c.Register(&sellCmd{}, "ledger")
	c.Register(&formatLedgerCmd{}, "ledger")

	c.Register(&holdingCmd{}, "reports")
	c.Register(&summaryCmd{}, "reports")
	c.Register(&taxCmd{}, "reports")

	c.Register(&watchCmd{}, "quotes")
	c.Register(&serveCmd{}, "quotes")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", "", "Path to a YAML configuration file")
var envFile = flag.String("env", ".env", "Path to a dotenv file, ignored if missing")
var ledgerFile = flag.String("ledger-file", "", "Path to the ledger file (JSONL format), overrides the configuration")
var backendURL = flag.String("backend-url", "", "URL of the quote backend, overrides the configuration")
var verbose = flag.Bool("v", false, "Log debug messages")
var rawMarkdown = flag.Bool("md", false, "Print reports as raw markdown")

// out receives the reports.
var out io.Writer = os.Stdout

// app is what every command needs: the configuration and a logger.
type app struct {
	cfg *config.Config
	log zerolog.Logger
}

// setup loads the configuration and applies the global flags on top of it.
func setup() (*app, error) {
	cfg, err := config.Load(*configFile, *envFile)
	if err != nil {
		return nil, err
	}
	if *ledgerFile != "" {
		cfg.Ledger = *ledgerFile
	}
	if *backendURL != "" {
		cfg.Backend.URL = *backendURL
	}
	if *verbose {
		cfg.LogLevel = zerolog.LevelDebugValue
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		Level(cfg.Level()).
		With().Timestamp().Logger()
	return &app{cfg: cfg, log: log}, nil
}

// DecodeLedger decodes the ledger of the app ledger file. A missing file is
// an empty ledger.
func (a *app) DecodeLedger() (*folio.Ledger, error) {
	f, err := os.Open(a.cfg.Ledger)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Warn().Str("file", a.cfg.Ledger).Msg("ledger does not exist, using an empty ledger instead")
		return folio.NewLedger(), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ledger, err := folio.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("cannot decode ledger %q: %w", a.cfg.Ledger, err)
	}
	return ledger, nil
}

// EncodeEntry appends a single entry into the app ledger file.
func (a *app) EncodeEntry(e folio.Entry) error {
	filename := a.cfg.Ledger
	// Open the file in append mode, creating it if it doesn't exist.
	f, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("error opening ledger file %q: %w", filename, err)
	}
	defer f.Close()

	if err := folio.EncodeEntry(f, e); err != nil {
		return fmt.Errorf("error writing to ledger file %q: %w", filename, err)
	}
	return nil
}

// Quotes returns the quote service of the configured backend.
func (a *app) Quotes() quote.Service {
	b := a.cfg.Backend
	return quote.NewClient(b.URL,
		quote.WithAPIKey(b.APIKey),
		quote.WithTimeout(b.Timeout),
		quote.WithRateLimit(b.RateLimit, b.Burst),
		quote.WithPath(b.QuotesPath),
		quote.WithLogger(a.log),
	)
}

// printMarkdown renders md for the terminal, or prints it as is with -md.
func printMarkdown(md string) {
	if *rawMarkdown {
		fmt.Fprint(out, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	s, err := r.Render(md)
	if err != nil {
		fmt.Fprint(out, md)
		return
	}
	fmt.Fprint(out, s)
}

// parseAmount parses a decimal flag value. An empty string is zero.
func parseAmount(name, s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid %s %q: %w", name, s, err)
	}
	return d, nil
}
