// Package folio is the accounting and valuation engine of an investment
// portfolio dashboard.
//
// It turns the append-only history of BUY and SELL transactions of a holding
// into statistics, values them against a market quote and formats the result
// for the market the holding trades on:
//
//   - Replay: replays a holding's full history, in trade date order, into a
//     HoldingStats (quantity, weighted-average cost, cost basis, fees and
//     realized P/L). The history is replayed from scratch on every call.
//   - Valuate and Aggregate: combine statistics with a price into an
//     UnrealizedPnL, and sum several of them into portfolio Totals whose
//     percent is weighted by the invested amounts.
//   - SellTax: the transaction tax on domestic sells.
//   - FormatAmount and FormatPercent: the display contract of amounts (whole
//     won, or dollars and cents) and signed percentages.
//
// Everything here is pure and synchronous: nothing fetches, persists or
// blocks. Quotes come from package quote, and are kept fresh by package live.
//
// Amounts are exact decimals. A price that is not known is never read as
// zero: valuations against a quote without a price are reported unavailable.
package folio
