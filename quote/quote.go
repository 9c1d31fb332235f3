// Package quote defines the source of market quotes: the Quote record, the
// Service contract, an in-memory Static service and a Client for the quote
// backend.
package quote

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnavailable is returned when quotes could not be fetched at all.
var ErrUnavailable = errors.New("quotes unavailable")

// Quote is the latest market data of one ticker.
//
// Every figure is optional. A null Price means the quote is unavailable, and
// that is different from a price of zero.
type Quote struct {
	Ticker        string              `json:"ticker"`
	Price         decimal.NullDecimal `json:"price"`
	Change        decimal.NullDecimal `json:"change"`
	ChangePercent decimal.NullDecimal `json:"change_percent"`
	Volume        decimal.NullDecimal `json:"volume"`
	FetchedAt     *time.Time          `json:"fetched_at,omitempty"`
}

// Available reports whether the quote carries a price.
func (q Quote) Available() bool { return q.Price.Valid }

// Priced returns a quote of ticker at price.
func Priced(ticker string, price decimal.Decimal) Quote {
	return Quote{Ticker: ticker, Price: decimal.NewNullDecimal(price)}
}

// Service returns the latest quotes of a set of tickers.
//
// The result is keyed by ticker. A ticker the service knows nothing about is
// absent from the map. An error means no quote could be fetched at all; it
// wraps ErrUnavailable or the context's error.
type Service interface {
	Quotes(ctx context.Context, tickers []string) (map[string]Quote, error)
}

// Static is a Service backed by a fixed set of quotes.
type Static map[string]Quote

// Quotes returns the known quotes among tickers.
func (s Static) Quotes(ctx context.Context, tickers []string) (map[string]Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res := make(map[string]Quote, len(tickers))
	for _, t := range tickers {
		if q, ok := s[t]; ok {
			res[t] = q
		}
	}
	return res, nil
}

// Func adapts a function to the Service interface.
type Func func(ctx context.Context, tickers []string) (map[string]Quote, error)

func (f Func) Quotes(ctx context.Context, tickers []string) (map[string]Quote, error) {
	return f(ctx, tickers)
}
