package folio

import "github.com/shopspring/decimal"

// Percent is a ratio expressed in percentage points (5 means 5%).
type Percent float64

// percentOf returns part/whole*100, or 0 when whole is zero.
func percentOf(part, whole decimal.Decimal) Percent {
	if whole.IsZero() {
		return 0
	}
	return Percent(part.Div(whole).Shift(2).InexactFloat64())
}

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	diff := p - q
	if diff < 0 {
		diff = -diff
	}
	return diff < precision
}

// String returns the percentage with two fractional digits and no sign for
// positive values.
func (p Percent) String() string {
	return p.rounded().StringFixed(2) + "%"
}

// SignedString returns the percentage with two fractional digits and an
// explicit sign: "+1.50%", "-3.46%". A value that rounds to zero is "0.00%".
func (p Percent) SignedString() string {
	d := p.rounded()
	switch {
	case d.IsZero():
		return "0.00%"
	case d.IsPositive():
		return "+" + d.StringFixed(2) + "%"
	default:
		return d.StringFixed(2) + "%"
	}
}

// rounded returns p at two fractional digits, half away from zero.
func (p Percent) rounded() decimal.Decimal {
	return decimal.NewFromFloat(float64(p)).Round(2)
}

// MarshalJSON writes the percentage as a number with four fractional digits.
func (p Percent) MarshalJSON() ([]byte, error) {
	return []byte(decimal.NewFromFloat(float64(p)).Round(4).String()), nil
}
