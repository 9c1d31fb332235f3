package folio

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatAmount(t *testing.T) {
	testCases := []struct {
		value  decimal.Decimal
		market Market
		want   string
	}{
		{D(1234567), KOSPI, "₩1,234,567"},
		{D(1234567.6), KOSDAQ, "₩1,234,568"},
		{D(0), KONEX, "₩0"},
		{D(-800), KOSPI, "-₩800"},
		{D(1234.5), NASDAQ, "$1,234.50"},
		{D(1234.567), NYSE, "$1,234.57"},
		{D(0.005), AMEX, "$0.01"},
		{D(-19), NASDAQ, "-$19.00"},
	}
	for _, tc := range testCases {
		if got := FormatAmount(tc.value, tc.market); got != tc.want {
			t.Errorf("FormatAmount(%v, %v) = %q, want %q", tc.value, tc.market, got, tc.want)
		}
	}
}

func TestFormatPercent(t *testing.T) {
	testCases := []struct {
		value Percent
		want  string
	}{
		{1.25, "+1.25%"},
		{-3.456, "-3.46%"},
		{0, "0.00%"},
		{0.004, "0.00%"},
		{-0.004, "0.00%"},
		{18.181818, "+18.18%"},
		{100, "+100.00%"},
	}
	for _, tc := range testCases {
		if got := FormatPercent(tc.value); got != tc.want {
			t.Errorf("FormatPercent(%v) = %q, want %q", float64(tc.value), got, tc.want)
		}
	}
}

func TestMoney_SignedString(t *testing.T) {
	testCases := []struct {
		value Money
		want  string
	}{
		{KRW(300), "+₩300"},
		{KRW(-300), "-₩300"},
		{KRW(0), "₩0"},
		{KRW(0.4), "₩0"}, // rounds to zero, no sign
		{USD(0.5), "+$0.50"},
	}
	for _, tc := range testCases {
		if got := tc.value.SignedString(); got != tc.want {
			t.Errorf("%v.SignedString() = %q, want %q", tc.value.Decimal(), got, tc.want)
		}
	}
}
