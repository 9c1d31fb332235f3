package folio

import "github.com/shopspring/decimal"

// FormatAmount formats value in the currency of market: whole won for
// domestic markets ("₩1,234,567"), dollars and cents for foreign markets
// ("$1,234.57").
func FormatAmount(value decimal.Decimal, market Market) string {
	return M(value, market.Currency()).String()
}

// FormatPercent formats a percentage with two fractional digits and an
// explicit sign: "+1.25%", "-3.46%". Zero is "0.00%".
func FormatPercent(value Percent) string {
	return value.SignedString()
}
