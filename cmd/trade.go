package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/etnz/folio"
	"github.com/google/subcommands"
)

// tradeFlags are the flags shared by buy and sell.
type tradeFlags struct {
	date     string
	ticker   string
	market   string
	price    string
	quantity int64
	fee      string
	tax      string
}

func (c *tradeFlags) set(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", time.Now().Format("2006-01-02"), "Trade date (YYYY-MM-DD or RFC 3339)")
	f.StringVar(&c.ticker, "t", "", "Ticker")
	f.StringVar(&c.market, "m", "", "Market (KOSPI, KOSDAQ, KONEX, NASDAQ, NYSE, AMEX), required for a new ticker")
	f.StringVar(&c.price, "p", "", "Price per share")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
	f.StringVar(&c.fee, "fee", "0", "Brokerage fee")
}

// transaction builds the transaction described by the flags, and resolves
// its market from the ledger when -m is not set.
func (c *tradeFlags) transaction(ledger *folio.Ledger, side folio.Side) (folio.Entry, error) {
	on, err := folio.ParseTradeDate(c.date)
	if err != nil {
		return folio.Entry{}, err
	}
	price, err := parseAmount("price", c.price)
	if err != nil {
		return folio.Entry{}, err
	}
	fee, err := parseAmount("fee", c.fee)
	if err != nil {
		return folio.Entry{}, err
	}
	tax, err := parseAmount("tax", c.tax)
	if err != nil {
		return folio.Entry{}, err
	}

	market, known := ledger.Market(c.ticker)
	if c.market != "" {
		if market, err = folio.ParseMarket(c.market); err != nil {
			return folio.Entry{}, err
		}
	} else if !known {
		return folio.Entry{}, fmt.Errorf("%s is a new ticker, its market (-m) is required", c.ticker)
	}

	tx := folio.Transaction{
		ID:        newID(time.Now()),
		Type:      side,
		Price:     price,
		Quantity:  folio.Q(c.quantity),
		Fee:       fee,
		Tax:       tax,
		TradeDate: on,
	}
	// Append checks the transaction and the market of the ticker.
	if err := ledger.Append(c.ticker, market, tx); err != nil {
		return folio.Entry{}, err
	}
	return folio.Entry{Ticker: c.ticker, Market: market, Transaction: tx}, nil
}

// record appends e to the ledger file.
func record(a *app, e folio.Entry) subcommands.ExitStatus {
	if err := a.EncodeEntry(e); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Fprintf(out, "Recorded %s of %s %s at %s in %s\n",
		e.Type, e.Quantity, e.Ticker, folio.FormatAmount(e.Price, e.Market), a.cfg.Ledger)
	return subcommands.ExitSuccess
}

// --- Buy Command ---

type buyCmd struct {
	tradeFlags
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "record a purchase of shares" }
func (*buyCmd) Usage() string {
	return `buy -t <ticker> [-m <market>] -q <quantity> -p <price> [-fee <fee>] [-tax <tax>] [-d <date>]

  Records the purchase of shares in the ledger.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.tax, "tax", "0", "Tax paid on the purchase")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price == "" {
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
	e, err := c.transaction(ledger, folio.Buy)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	return record(a, e)
}

// --- Sell Command ---

type sellCmd struct {
	tradeFlags
	force bool
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "record a sale of shares" }
func (*sellCmd) Usage() string {
	return `sell -t <ticker> [-m <market>] -q <quantity> -p <price> [-fee <fee>] [-tax <tax>] [-d <date>] [-f]

  Records the sale of shares in the ledger. Without -tax the transaction tax
  of the market is applied. Selling more shares than held on the trade date
  is refused unless -f is set.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	c.set(f)
	f.StringVar(&c.tax, "tax", "", "Tax paid on the sale, defaults to the market transaction tax")
	f.BoolVar(&c.force, "f", false, "Record the sale even if it exceeds the shares held")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.ticker == "" || c.quantity <= 0 || c.price == "" {
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
	past := ledger.Transactions(c.ticker)

	e, err := c.transaction(ledger, folio.Sell)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	if c.tax == "" {
		e.Tax = folio.SellTax(e.Price, e.Quantity, e.Market).Decimal()
	}

	held := folio.ReplayUntil(e.Market, past, e.TradeDate).Quantity
	if e.Quantity.GreaterThan(held) && !c.force {
		fmt.Fprintf(os.Stderr, "Error: cannot sell %s %s, only %s held on %s (use -f to record it anyway)\n",
			e.Quantity, e.Ticker, held, e.TradeDate.Format("2006-01-02"))
		return subcommands.ExitFailure
	}
	return record(a, e)
}
