package folio

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMarket is returned when parsing an exchange identifier that is
// not one of the supported markets.
var ErrUnknownMarket = errors.New("unknown market")

// Market identifies the exchange a holding trades on. It is fixed when the
// holding is created and selects both the currency and the tax regime.
type Market uint8

// Supported markets. The zero value is not a valid market.
const (
	KOSPI Market = iota + 1
	KOSDAQ
	KONEX
	NASDAQ
	NYSE
	AMEX
)

// Markets lists every supported market in declaration order.
var Markets = []Market{KOSPI, KOSDAQ, KONEX, NASDAQ, NYSE, AMEX}

// Region groups markets that share a currency and a tax regime.
type Region uint8

const (
	// Domestic markets quote in KRW and levy a transaction tax on sells.
	Domestic Region = iota + 1
	// Foreign markets quote in USD and are not taxed at transaction time.
	Foreign
)

func (r Region) String() string {
	switch r {
	case Domestic:
		return "domestic"
	case Foreign:
		return "foreign"
	}
	return fmt.Sprintf("Region(%d)", uint8(r))
}

// Region returns the region of the market.
//
// It panics on a value that is not one of the declared markets: such a value
// can only be produced by a conversion that bypassed ParseMarket.
func (m Market) Region() Region {
	switch m {
	case KOSPI, KOSDAQ, KONEX:
		return Domestic
	case NASDAQ, NYSE, AMEX:
		return Foreign
	}
	panic(fmt.Sprintf("invalid market %d", uint8(m)))
}

// Currency returns the ISO code of the currency the market quotes in.
func (m Market) Currency() string {
	switch m.Region() {
	case Domestic:
		return "KRW"
	case Foreign:
		return "USD"
	}
	panic("unreachable")
}

// Valid reports whether m is one of the declared markets.
func (m Market) Valid() bool { return m >= KOSPI && m <= AMEX }

func (m Market) String() string {
	switch m {
	case KOSPI:
		return "KOSPI"
	case KOSDAQ:
		return "KOSDAQ"
	case KONEX:
		return "KONEX"
	case NASDAQ:
		return "NASDAQ"
	case NYSE:
		return "NYSE"
	case AMEX:
		return "AMEX"
	}
	return fmt.Sprintf("Market(%d)", uint8(m))
}

// ParseMarket parses an exchange identifier, case-insensitively.
func ParseMarket(s string) (Market, error) {
	for _, m := range Markets {
		if strings.EqualFold(s, m.String()) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMarket, s)
}

func (m Market) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownMarket, uint8(m))
	}
	return []byte(m.String()), nil
}

func (m *Market) UnmarshalText(text []byte) error {
	v, err := ParseMarket(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
