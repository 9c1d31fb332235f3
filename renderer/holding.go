package renderer

import (
	"github.com/etnz/folio"
)

// Holding is the detailed view of a single holding.
type Holding struct {
	Ticker    string
	Market    folio.Market
	Currency  string
	Quantity  folio.Quantity
	Average   folio.Money
	CostBasis folio.Money
	Fees      folio.Money
	Realized  folio.Money
	Anomalies int

	// Valued is false when there was no price to value the holding.
	Valued      bool
	Price       folio.Money
	MarketValue folio.Money
	PnL         folio.Money
	Percent     folio.Percent

	Transactions []HoldingTransaction
}

// HoldingTransaction is a line of the holding's history.
type HoldingTransaction struct {
	Date     string
	Type     string
	Quantity folio.Quantity
	Price    folio.Money
	Fee      folio.Money
	Tax      folio.Money
}

// NewHolding builds the view of an appraised holding and its history. The
// history is listed chronologically.
func NewHolding(a folio.Appraisal, txs []folio.Transaction) *Holding {
	cur := a.Stats.Currency()
	h := &Holding{
		Ticker:      a.Ticker,
		Market:      a.Market,
		Currency:    cur,
		Quantity:    a.Stats.Quantity,
		Average:     a.Stats.AverageCost,
		CostBasis:   a.Stats.CostBasis,
		Fees:        a.Stats.Fees,
		Realized:    a.Stats.RealizedPnL,
		Anomalies:   a.Stats.Anomalies,
		Valued:      a.Available,
		Price:       a.Valuation.Price,
		MarketValue: a.Valuation.MarketValue,
		PnL:         a.Valuation.PnL,
		Percent:     a.Valuation.Percent,
	}
	for _, tx := range folio.Chronological(txs) {
		h.Transactions = append(h.Transactions, HoldingTransaction{
			Date:     tx.TradeDate.Format("2006-01-02"),
			Type:     tx.Type.String(),
			Quantity: tx.Quantity,
			Price:    folio.M(tx.Price, cur),
			Fee:      folio.M(tx.Fee, cur),
			Tax:      folio.M(tx.Tax, cur),
		})
	}
	return h
}

// RenderHolding renders the holding view to markdown.
func RenderHolding(h *Holding) string {
	return renderTemplate("holding", holdingMarkdownTemplate, h)
}

const holdingMarkdownTemplate = `# {{ .Ticker }}

Traded on {{ .Market }}, in {{ .Currency }}.

| Statistic | Value |
|:---|---:|
| Quantity | {{ .Quantity }} |
| Average Cost | {{ .Average }} |
| Cost Basis | {{ .CostBasis }} |
| Fees & Taxes | {{ .Fees }} |
| Realized P/L | {{ .Realized.SignedString }} |
{{- if .Valued }}
| Price | {{ .Price }} |
| Market Value | {{ .MarketValue }} |
| Unrealized P/L | {{ .PnL.SignedString }} |
| Unrealized Return | {{ .Percent.SignedString }} |
{{- else }}
| Price | unavailable |
{{- end }}
{{- if .Anomalies }}

> {{ .Anomalies }} sell(s) exceeded the quantity held and were clamped to zero.
{{- end }}
{{- if .Transactions }}

## Transactions

| Date | Type | Quantity | Price | Fee | Tax |
|:---|:---|---:|---:|---:|---:|
{{- range .Transactions }}
| {{ .Date }} | {{ .Type }} | {{ .Quantity }} | {{ .Price }} | {{ .Fee }} | {{ .Tax }} |
{{- end }}
{{- end }}
`
