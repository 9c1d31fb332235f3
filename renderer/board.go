package renderer

import (
	"github.com/etnz/folio"
	"github.com/etnz/folio/live"
	"github.com/shopspring/decimal"
)

// Board is the view of the live quotes of the visible tickers.
type Board struct {
	State     string
	UpdatedAt string
	Error     string
	Rows      []BoardRow
}

// BoardRow is the quote of one ticker. Missing figures are "n/a".
type BoardRow struct {
	Ticker        string
	Price         string
	Change        string
	ChangePercent string
	Volume        string
}

// NewBoard builds the view of snapshot s. Prices of tickers found in markets
// are formatted in their market currency.
func NewBoard(s *live.Snapshot, markets map[string]folio.Market) *Board {
	b := &Board{
		State:     s.State.String(),
		UpdatedAt: s.UpdatedAt.Format("2006-01-02 15:04:05"),
	}
	if s.Err != nil {
		b.Error = s.Err.Error()
	}
	for _, t := range s.Tickers {
		row := BoardRow{Ticker: t, Price: "n/a", Change: "n/a", ChangePercent: "n/a", Volume: "n/a"}
		q, ok := s.Quote(t)
		if ok {
			m, known := markets[t]
			if q.Price.Valid {
				row.Price = amount(q.Price.Decimal, m, known)
			}
			if q.Change.Valid {
				row.Change = amount(q.Change.Decimal, m, known)
				if q.Change.Decimal.IsPositive() {
					row.Change = "+" + row.Change
				}
			}
			if q.ChangePercent.Valid {
				row.ChangePercent = folio.FormatPercent(folio.Percent(q.ChangePercent.Decimal.InexactFloat64()))
			}
			if q.Volume.Valid {
				row.Volume = q.Volume.Decimal.String()
			}
		}
		b.Rows = append(b.Rows, row)
	}
	return b
}

func amount(v decimal.Decimal, m folio.Market, known bool) string {
	if !known {
		return v.String()
	}
	return folio.FormatAmount(v, m)
}

// RenderBoard renders the quote board to markdown.
func RenderBoard(b *Board) string {
	return renderTemplate("board", boardMarkdownTemplate, b)
}

const boardMarkdownTemplate = `# Quotes

Status: **{{ .State }}** at {{ .UpdatedAt }}
{{- if .Error }}

> {{ .Error }}
{{- end }}
{{- if .Rows }}

| Ticker | Price | Change | Change % | Volume |
|:---|---:|---:|---:|---:|
{{- range .Rows }}
| {{ .Ticker }} | {{ .Price }} | {{ .Change }} | {{ .ChangePercent }} | {{ .Volume }} |
{{- end }}
{{- end }}
`
