package renderer

import (
	"github.com/etnz/folio"
)

// Summary is the view of a whole portfolio.
type Summary struct {
	Positions   []SummaryPosition
	Totals      []SummaryTotals
	Unavailable []string
}

// SummaryPosition is one line of the positions table.
type SummaryPosition struct {
	Ticker      string
	Market      folio.Market
	Quantity    folio.Quantity
	Average     folio.Money
	Available   bool
	Price       folio.Money
	MarketValue folio.Money
	PnL         folio.Money
	Percent     folio.Percent
}

// SummaryTotals are the totals of one currency.
type SummaryTotals struct {
	Currency    string
	Holdings    int
	Invested    folio.Money
	MarketValue folio.Money
	PnL         folio.Money
	Percent     folio.Percent
	Realized    folio.Money
}

// NewSummary builds the view of p. Closed positions are left out unless
// withClosed is set; their realized P/L is part of the totals either way.
func NewSummary(p folio.Portfolio, withClosed bool) *Summary {
	s := &Summary{Unavailable: p.Unavailable()}
	for _, a := range p.Appraisals {
		if a.Stats.Closed() && !withClosed {
			continue
		}
		s.Positions = append(s.Positions, SummaryPosition{
			Ticker:      a.Ticker,
			Market:      a.Market,
			Quantity:    a.Stats.Quantity,
			Average:     a.Stats.AverageCost,
			Available:   a.Available,
			Price:       a.Valuation.Price,
			MarketValue: a.Valuation.MarketValue,
			PnL:         a.Valuation.PnL,
			Percent:     a.Valuation.Percent,
		})
	}
	for i, t := range p.Totals {
		s.Totals = append(s.Totals, SummaryTotals{
			Currency:    t.Currency,
			Holdings:    t.Holdings,
			Invested:    t.Invested,
			MarketValue: t.MarketValue,
			PnL:         t.PnL,
			Percent:     t.Percent,
			Realized:    p.Realized[i],
		})
	}
	return s
}

// RenderSummary renders the summary view to markdown.
func RenderSummary(s *Summary) string {
	return renderTemplate("summary", summaryMarkdownTemplate, s)
}

const summaryMarkdownTemplate = `# Portfolio Summary
{{- if .Positions }}

## Positions

| Ticker | Market | Quantity | Average Cost | Price | Market Value | Unrealized P/L | Return |
|:---|:---|---:|---:|---:|---:|---:|---:|
{{- range .Positions }}
{{- if .Available }}
| {{ .Ticker }} | {{ .Market }} | {{ .Quantity }} | {{ .Average }} | {{ .Price }} | {{ .MarketValue }} | {{ .PnL.SignedString }} | {{ .Percent.SignedString }} |
{{- else }}
| {{ .Ticker }} | {{ .Market }} | {{ .Quantity }} | {{ .Average }} | n/a | n/a | n/a | n/a |
{{- end }}
{{- end }}
{{- else }}

No position.
{{- end }}
{{- if .Totals }}

## Totals

| Currency | Holdings | Invested | Market Value | Unrealized P/L | Return | Realized P/L |
|:---|---:|---:|---:|---:|---:|---:|
{{- range .Totals }}
| {{ .Currency }} | {{ .Holdings }} | {{ .Invested }} | {{ .MarketValue }} | {{ .PnL.SignedString }} | {{ .Percent.SignedString }} | {{ .Realized.SignedString }} |
{{- end }}
{{- end }}
{{- if .Unavailable }}

Quotes unavailable for:{{ range .Unavailable }} {{ . }}{{ end }}. They are not part of the totals.
{{- end }}
`
