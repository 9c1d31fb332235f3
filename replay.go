package folio

import (
	"slices"
	"sort"
	"time"
)

// HoldingStats is the state of one holding derived from its full transaction
// history. It is recomputed on every call and never stored.
type HoldingStats struct {
	AverageCost Money    // per unit currently held, 0 when nothing is held
	Quantity    Quantity // never negative
	CostBasis   Money    // Quantity × AverageCost, 0 when nothing is held
	Fees        Money    // cumulative fees and taxes of all transactions
	RealizedPnL Money    // locked in by sells, against the average cost at sale time

	// Anomalies counts the sells that exceeded the held quantity. Those were
	// clamped to zero instead of leaving a short position.
	Anomalies int
}

// Currency returns the currency the statistics are expressed in.
func (s HoldingStats) Currency() string { return s.CostBasis.Currency() }

// Closed reports whether nothing is held anymore.
func (s HoldingStats) Closed() bool { return s.Quantity.IsZero() }

// Replay computes the statistics of a holding on market from its
// transactions, using the weighted-average cost method: each sell is priced
// against the blended cost of everything bought before it, and each buy
// re-blends the average.
//
// Transactions are processed in ascending trade date. Transactions sharing a
// trade date keep their relative order in txs. The input slice is not
// modified.
//
// Replay never fails. It assumes every transaction is valid (see
// Transaction.Validate). A sell of more units than held realizes the gain on
// the whole sold quantity, then resets the holding to zero units at zero cost
// and counts one anomaly.
func Replay(market Market, txs []Transaction) HoldingStats {
	cur := market.Currency()

	var quantity Quantity
	totalCost := M(0, cur)
	fees := M(0, cur)
	realized := M(0, cur)
	anomalies := 0

	for _, tx := range Chronological(txs) {
		price := M(tx.Price, cur)
		fees = fees.Add(M(tx.Fee, cur)).Add(M(tx.Tax, cur))

		switch tx.Type {
		case Buy:
			totalCost = totalCost.Add(price.Mul(tx.Quantity))
			quantity = quantity.Add(tx.Quantity)
		case Sell:
			avg := averageCost(totalCost, quantity)
			realized = realized.Add(price.Sub(avg).Mul(tx.Quantity))
			totalCost = totalCost.Sub(avg.Mul(tx.Quantity))
			quantity = quantity.Sub(tx.Quantity)

			if quantity.IsNegative() {
				quantity = Q(0)
				anomalies++
			}
			if quantity.IsZero() {
				// clears the rounding dust of the average cost
				totalCost = M(0, cur)
			}
		}
	}

	return HoldingStats{
		AverageCost: averageCost(totalCost, quantity),
		Quantity:    quantity,
		CostBasis:   totalCost,
		Fees:        fees,
		RealizedPnL: realized,
		Anomalies:   anomalies,
	}
}

// Chronological returns a copy of txs sorted by ascending trade date.
// Transactions sharing a trade date keep their relative order.
func Chronological(txs []Transaction) []Transaction {
	sorted := slices.Clone(txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TradeDate.Before(sorted[j].TradeDate)
	})
	return sorted
}

// ReplayUntil is Replay restricted to the transactions traded on or before
// on.
func ReplayUntil(market Market, txs []Transaction, on time.Time) HoldingStats {
	past := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if !tx.TradeDate.After(on) {
			past = append(past, tx)
		}
	}
	return Replay(market, past)
}

// averageCost returns totalCost/quantity, or zero when nothing is held.
func averageCost(totalCost Money, quantity Quantity) Money {
	if !quantity.IsPositive() {
		return M(0, totalCost.Currency())
	}
	return totalCost.Div(quantity)
}

// MarshalJSON writes the statistics with snake_case fields.
func (s HoldingStats) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("quantity", s.Quantity)
	w.Append("average_cost", s.AverageCost)
	w.Append("cost_basis", s.CostBasis)
	w.Append("total_fees", s.Fees)
	w.Append("realized_pnl", s.RealizedPnL)
	w.Optional("anomalies", s.Anomalies)
	return w.MarshalJSON()
}
