package folio

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Ledger is the append-only record of the transactions of every holding,
// grouped by ticker. Within a holding transactions keep their insertion
// order; chronological order is only established by Replay.
type Ledger struct {
	tickers  []string // in order of first appearance
	holdings map[string]*holding
}

type holding struct {
	market Market
	txs    []Transaction
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{holdings: make(map[string]*holding)}
}

// Append records valid transactions of ticker traded on market. A ticker is
// bound to its market by its first transaction and cannot move afterwards.
// Nothing is appended if any transaction is invalid.
func (l *Ledger) Append(ticker string, market Market, txs ...Transaction) error {
	if ticker == "" {
		return fmt.Errorf("%w: ticker is missing", ErrInvalidTransaction)
	}
	if !market.Valid() {
		return fmt.Errorf("%s: %w: %d", ticker, ErrUnknownMarket, uint8(market))
	}
	if err := ValidateTransactions(txs); err != nil {
		return fmt.Errorf("%s: %w", ticker, err)
	}
	h, ok := l.holdings[ticker]
	if !ok {
		h = &holding{market: market}
		l.holdings[ticker] = h
		l.tickers = append(l.tickers, ticker)
	}
	if h.market != market {
		return fmt.Errorf("%s: traded on %s, cannot record a transaction on %s", ticker, h.market, market)
	}
	h.txs = append(h.txs, txs...)
	return nil
}

// Tickers returns an iterator over all tickers in order of first appearance.
func (l *Ledger) Tickers() iter.Seq[string] {
	return slices.Values(l.tickers)
}

// Market returns the market ticker trades on.
func (l *Ledger) Market(ticker string) (Market, bool) {
	h, ok := l.holdings[ticker]
	if !ok {
		return 0, false
	}
	return h.market, true
}

// Transactions returns a copy of the transactions of ticker in insertion
// order.
func (l *Ledger) Transactions(ticker string) []Transaction {
	h, ok := l.holdings[ticker]
	if !ok {
		return nil
	}
	return slices.Clone(h.txs)
}

// Position replays the history of ticker.
func (l *Ledger) Position(ticker string) (Position, bool) {
	h, ok := l.holdings[ticker]
	if !ok {
		return Position{}, false
	}
	return Position{Ticker: ticker, Market: h.market, Stats: Replay(h.market, h.txs)}, true
}

// Positions replays every holding, in order of first appearance.
func (l *Ledger) Positions() []Position {
	positions := make([]Position, 0, len(l.tickers))
	for _, ticker := range l.tickers {
		p, _ := l.Position(ticker)
		positions = append(positions, p)
	}
	return positions
}

// Entry is one line of a persisted ledger: a transaction and the holding it
// belongs to.
type Entry struct {
	Ticker string
	Market Market
	Transaction
}

// MarshalJSON writes the entry as a flat object, holding fields first.
func (e Entry) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", e.Ticker)
	w.Append("market", e.Market)
	w.EmbedFrom(e.Transaction)
	return w.MarshalJSON()
}

// UnmarshalJSON reads the flat object produced by MarshalJSON.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var h struct {
		Ticker string `json:"ticker"`
		Market Market `json:"market"`
	}
	if err := json.Unmarshal(data, &h); err != nil {
		return err
	}
	if err := json.Unmarshal(data, &e.Transaction); err != nil {
		return err
	}
	e.Ticker, e.Market = h.Ticker, h.Market
	return nil
}

// DecodeLedger decodes a ledger from a stream of JSONL entries. Empty lines
// are skipped. Any malformed or invalid entry is an error that names its
// line.
func DecodeLedger(r io.Reader) (*Ledger, error) {
	ledger := NewLedger()
	scanner := bufio.NewScanner(r)
	n := 0
	for scanner.Scan() {
		n++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var e Entry
		if err := json.Unmarshal(line, &e); err != nil {
			return nil, fmt.Errorf("format error on line %d %q: %w", n, string(line), err)
		}
		if err := ledger.Append(e.Ticker, e.Market, e.Transaction); err != nil {
			return nil, fmt.Errorf("line %d: %w", n, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read ledger: %w", err)
	}
	return ledger, nil
}

// EncodeLedger writes every entry of the ledger as JSONL, holding by holding.
func EncodeLedger(w io.Writer, l *Ledger) error {
	for _, ticker := range l.tickers {
		h := l.holdings[ticker]
		for _, tx := range h.txs {
			if err := EncodeEntry(w, Entry{Ticker: ticker, Market: h.market, Transaction: tx}); err != nil {
				return err
			}
		}
	}
	return nil
}

// EncodeEntry appends a single entry as one JSON line.
func EncodeEntry(w io.Writer, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("cannot encode %s transaction of %s: %w", e.Type, e.Ticker, err)
	}
	b = append(b, '\n')
	_, err = w.Write(b)
	return err
}
