package folio

import (
	"github.com/etnz/folio/quote"
	"github.com/shopspring/decimal"
)

// UnrealizedPnL is the paper result of a holding at a given market price.
type UnrealizedPnL struct {
	Price       Money   // current price per unit
	MarketValue Money   // Price × quantity held
	CostBasis   Money   // what the held units cost
	PnL         Money   // MarketValue − CostBasis
	Percent     Percent // PnL / CostBasis, 0 when CostBasis is 0
}

// Valuate values the holding described by stats at price. It never fails:
// a closed holding is worth zero and has a zero percent.
func Valuate(stats HoldingStats, price Money) UnrealizedPnL {
	marketValue := price.Mul(stats.Quantity)
	pnl := marketValue.Sub(stats.CostBasis)
	return UnrealizedPnL{
		Price:       price,
		MarketValue: marketValue,
		CostBasis:   stats.CostBasis,
		PnL:         pnl,
		Percent:     percentOf(pnl.value, stats.CostBasis.value),
	}
}

// ValuateQuote values stats at the quote's price. The boolean is false when
// the quote carries no price, in which case there is no valuation at all:
// a missing price is never read as zero.
func ValuateQuote(stats HoldingStats, q quote.Quote) (UnrealizedPnL, bool) {
	if !q.Available() {
		return UnrealizedPnL{}, false
	}
	return Valuate(stats, M(q.Price.Decimal, stats.Currency())), true
}

// Totals sums the valuations of several holdings in one currency.
type Totals struct {
	Currency    string
	Invested    Money // Σ cost basis
	MarketValue Money
	PnL         Money
	Percent     Percent // Σ PnL / Σ Invested
	Holdings    int
}

// Aggregate sums valuations. The percent is recomputed from the sums, so
// large positions weigh more than small ones.
//
// All valuations must share a currency: Aggregate panics otherwise, as no
// conversion is made between currencies.
func Aggregate(vals ...UnrealizedPnL) Totals {
	var t Totals
	for _, v := range vals {
		t.Invested = t.Invested.Add(v.CostBasis)
		t.MarketValue = t.MarketValue.Add(v.MarketValue)
		t.PnL = t.PnL.Add(v.PnL)
		t.Holdings++
	}
	t.Currency = t.Invested.Add(t.MarketValue).Currency()
	t.Percent = percentOf(t.PnL.value, t.Invested.value)
	return t
}

// Position is a holding identified by its ticker, with its replayed
// statistics.
type Position struct {
	Ticker string
	Market Market
	Stats  HoldingStats
}

// Appraisal is a position joined with its quote.
type Appraisal struct {
	Position
	Quote     quote.Quote
	Valuation UnrealizedPnL // meaningful only when Available
	Available bool
}

// Portfolio is the valuation of a set of positions.
type Portfolio struct {
	Appraisals []Appraisal // in the order of the positions
	Totals     []Totals    // one per currency, in order of first appearance
	Realized   []Money     // Σ realized P/L, one per currency, same order as Totals
}

// Unavailable returns the tickers that could not be valued.
func (p Portfolio) Unavailable() []string {
	var tickers []string
	for _, a := range p.Appraisals {
		if !a.Available {
			tickers = append(tickers, a.Ticker)
		}
	}
	return tickers
}

// TotalsIn returns the totals of currency cur.
func (p Portfolio) TotalsIn(cur string) (Totals, bool) {
	for _, t := range p.Totals {
		if t.Currency == cur {
			return t, true
		}
	}
	return Totals{}, false
}

// Appraise values every position against its quote in quotes, keyed by
// ticker. Positions without a quote, or with a quote without a price, are
// kept unavailable and left out of the totals. Totals are computed per
// currency by summing the per-holding valuations.
func Appraise(positions []Position, quotes map[string]quote.Quote) Portfolio {
	var p Portfolio
	priced := make(map[string][]UnrealizedPnL)
	realized := make(map[string]Money)
	var currencies []string

	for _, pos := range positions {
		a := Appraisal{Position: pos}
		if q, ok := quotes[pos.Ticker]; ok {
			a.Quote = q
			a.Valuation, a.Available = ValuateQuote(pos.Stats, q)
		}
		p.Appraisals = append(p.Appraisals, a)

		cur := pos.Stats.Currency()
		if _, seen := realized[cur]; !seen {
			currencies = append(currencies, cur)
			realized[cur] = M(decimal.Zero, cur)
		}
		realized[cur] = realized[cur].Add(pos.Stats.RealizedPnL)
		if a.Available {
			priced[cur] = append(priced[cur], a.Valuation)
		}
	}

	for _, cur := range currencies {
		t := Aggregate(priced[cur]...)
		if t.Holdings == 0 {
			zero := M(decimal.Zero, cur)
			t = Totals{Invested: zero, MarketValue: zero, PnL: zero}
		}
		t.Currency = cur
		p.Totals = append(p.Totals, t)
		p.Realized = append(p.Realized, realized[cur])
	}
	return p
}

func (v UnrealizedPnL) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("current_price", v.Price)
	w.Append("market_value", v.MarketValue)
	w.Append("cost_basis", v.CostBasis)
	w.Append("unrealized_pnl", v.PnL)
	w.Append("unrealized_percent", v.Percent)
	return w.MarshalJSON()
}

func (t Totals) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("currency", t.Currency)
	w.Append("holdings", t.Holdings)
	w.Append("total_invested", t.Invested)
	w.Append("total_value", t.MarketValue)
	w.Append("total_pnl", t.PnL)
	w.Append("total_percent", t.Percent)
	return w.MarshalJSON()
}

// MarshalJSON writes the position, its quote and its valuation. The
// valuation is null when the position could not be valued.
func (a Appraisal) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", a.Ticker)
	w.Append("market", a.Market)
	w.Append("stats", a.Stats)
	if a.Quote.Ticker != "" {
		w.Append("quote", a.Quote)
	} else {
		w.Append("quote", nil)
	}
	if a.Available {
		w.Append("valuation", a.Valuation)
	} else {
		w.Append("valuation", nil)
	}
	return w.MarshalJSON()
}

func (p Portfolio) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("holdings", nonNil(p.Appraisals))
	w.Append("totals", nonNil(p.Totals))
	w.Append("realized", nonNil(p.Realized))
	w.Append("unavailable", nonNil(p.Unavailable()))
	return w.MarshalJSON()
}

// nonNil makes empty lists encode as [] rather than null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func (p Position) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("ticker", p.Ticker)
	w.Append("market", p.Market)
	w.Append("stats", p.Stats)
	return w.MarshalJSON()
}
