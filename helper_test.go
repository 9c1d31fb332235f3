package folio

import (
	"time"

	"github.com/shopspring/decimal"
)

// KRW is a helper for test to create won money from const
func KRW(v float64) Money { return M(v, "KRW") }

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// D is a helper for test to create a decimal from const
func D(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// day returns midnight UTC of the given day.
func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func buy(on time.Time, qty int, price, fee, tax float64) Transaction {
	return NewBuy(on, D(price), Q(qty), D(fee), D(tax))
}

func sell(on time.Time, qty int, price, fee, tax float64) Transaction {
	return NewSell(on, D(price), Q(qty), D(fee), D(tax))
}
