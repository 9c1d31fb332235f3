package folio

import "testing"

func TestSellTax(t *testing.T) {
	testCases := []struct {
		name     string
		price    float64
		quantity int
		market   Market
		want     Money
	}{
		{"KOSPI", 10000, 10, KOSPI, KRW(200)},
		{"KOSDAQ", 71200, 3, KOSDAQ, KRW(427)}, // 427.2
		{"KONEX truncates", 999, 1, KONEX, KRW(1)}, // 1.998
		{"below one won", 100, 1, KOSPI, KRW(0)},
		{"NASDAQ", 213.49, 100, NASDAQ, USD(0)},
		{"NYSE", 50, 1, NYSE, USD(0)},
		{"AMEX", 50, 1, AMEX, USD(0)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := SellTax(D(tc.price), Q(tc.quantity), tc.market)
			if !got.Equal(tc.want) {
				t.Errorf("SellTax(%v, %d, %v) = %v (%s), want %v", tc.price, tc.quantity, tc.market, got, got.Currency(), tc.want)
			}
		})
	}
}
