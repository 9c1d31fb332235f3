package folio

import "github.com/shopspring/decimal"

// domesticSellTaxRate is the securities transaction tax levied on sells on
// domestic markets.
var domesticSellTaxRate = decimal.RequireFromString("0.002")

// SellTax returns the transaction tax due when selling quantity units at
// price on market. Domestic markets levy price × quantity × 0.2%, truncated
// to the whole currency unit. Foreign markets levy nothing.
//
// The result is in the market currency.
func SellTax(price decimal.Decimal, quantity Quantity, market Market) Money {
	cur := market.Currency()
	switch market.Region() {
	case Domestic:
		return M(price.Mul(quantity.value).Mul(domesticSellTaxRate).Floor(), cur)
	case Foreign:
		return M(0, cur)
	}
	panic("unreachable")
}
