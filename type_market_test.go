package folio

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestMarket(t *testing.T) {
	testCases := []struct {
		market   Market
		region   Region
		currency string
	}{
		{KOSPI, Domestic, "KRW"},
		{KOSDAQ, Domestic, "KRW"},
		{KONEX, Domestic, "KRW"},
		{NASDAQ, Foreign, "USD"},
		{NYSE, Foreign, "USD"},
		{AMEX, Foreign, "USD"},
	}
	for _, tc := range testCases {
		t.Run(tc.market.String(), func(t *testing.T) {
			if got := tc.market.Region(); got != tc.region {
				t.Errorf("Region() = %v, want %v", got, tc.region)
			}
			if got := tc.market.Currency(); got != tc.currency {
				t.Errorf("Currency() = %q, want %q", got, tc.currency)
			}
			got, err := ParseMarket(tc.market.String())
			if err != nil || got != tc.market {
				t.Errorf("ParseMarket(%q) = %v, %v", tc.market.String(), got, err)
			}
		})
	}
}

func TestParseMarket(t *testing.T) {
	if got, err := ParseMarket("kosdaq"); err != nil || got != KOSDAQ {
		t.Errorf("ParseMarket(kosdaq) = %v, %v, want KOSDAQ", got, err)
	}
	for _, s := range []string{"", "LSE", "KOSPI200"} {
		if _, err := ParseMarket(s); !errors.Is(err, ErrUnknownMarket) {
			t.Errorf("ParseMarket(%q) error = %v, want ErrUnknownMarket", s, err)
		}
	}
}

func TestMarket_Invalid(t *testing.T) {
	if Market(0).Valid() || Market(42).Valid() {
		t.Error("an undeclared market is valid")
	}
	defer func() {
		if recover() == nil {
			t.Error("Region() of an undeclared market did not panic")
		}
	}()
	Market(42).Region()
}

func TestMarket_JSON(t *testing.T) {
	data, err := json.Marshal(map[string]Market{"m": NYSE})
	if err != nil || string(data) != `{"m":"NYSE"}` {
		t.Errorf("json.Marshal() = %s, %v", data, err)
	}
	var m struct{ Market Market }
	if err := json.Unmarshal([]byte(`{"Market":"amex"}`), &m); err != nil || m.Market != AMEX {
		t.Errorf("json.Unmarshal() = %v, %v, want AMEX", m.Market, err)
	}
	if err := json.Unmarshal([]byte(`{"Market":"XETRA"}`), &m); err == nil {
		t.Error("json.Unmarshal() accepted an unknown market")
	}
}
