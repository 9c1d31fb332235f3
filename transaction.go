package folio

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidTransaction wraps every validation failure of a Transaction.
var ErrInvalidTransaction = errors.New("invalid transaction")

// Side is the direction of a trade.
type Side uint8

const (
	Buy Side = iota + 1
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return fmt.Sprintf("Side(%d)", uint8(s))
}

// ParseSide parses "BUY" or "SELL", case-insensitively.
func ParseSide(s string) (Side, error) {
	switch strings.ToUpper(s) {
	case "BUY":
		return Buy, nil
	case "SELL":
		return Sell, nil
	}
	return 0, fmt.Errorf("unknown transaction type %q", s)
}

func (s Side) MarshalText() ([]byte, error) {
	if s != Buy && s != Sell {
		return nil, fmt.Errorf("unknown transaction type %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Side) UnmarshalText(text []byte) error {
	v, err := ParseSide(string(text))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Transaction is a single recorded trade of one instrument. Amounts are in
// the currency of the holding's market. Transactions are values: the engine
// never modifies them.
type Transaction struct {
	ID        string // optional, opaque
	Type      Side
	Price     decimal.Decimal // per unit
	Quantity  Quantity
	Fee       decimal.Decimal
	Tax       decimal.Decimal
	TradeDate time.Time
}

// NewBuy returns a BUY transaction.
func NewBuy(on time.Time, price decimal.Decimal, quantity Quantity, fee, tax decimal.Decimal) Transaction {
	return Transaction{Type: Buy, Price: price, Quantity: quantity, Fee: fee, Tax: tax, TradeDate: on}
}

// NewSell returns a SELL transaction.
func NewSell(on time.Time, price decimal.Decimal, quantity Quantity, fee, tax decimal.Decimal) Transaction {
	return Transaction{Type: Sell, Price: price, Quantity: quantity, Fee: fee, Tax: tax, TradeDate: on}
}

// Amount returns price × quantity, before fees and tax.
func (t Transaction) Amount() decimal.Decimal {
	return t.Price.Mul(t.Quantity.value)
}

// Validate reports every way t breaks the transaction contract: a known type,
// a positive price, a positive whole quantity, non-negative fee and tax and a
// trade date.
func (t Transaction) Validate() error {
	var errs []error
	if t.Type != Buy && t.Type != Sell {
		errs = append(errs, fmt.Errorf("unknown type %d", uint8(t.Type)))
	}
	if !t.Price.IsPositive() {
		errs = append(errs, fmt.Errorf("price must be positive, got %s", t.Price))
	}
	if !t.Quantity.IsPositive() || !t.Quantity.IsInteger() {
		errs = append(errs, fmt.Errorf("quantity must be a positive whole number, got %s", t.Quantity))
	}
	if t.Fee.IsNegative() {
		errs = append(errs, fmt.Errorf("fee must not be negative, got %s", t.Fee))
	}
	if t.Tax.IsNegative() {
		errs = append(errs, fmt.Errorf("tax must not be negative, got %s", t.Tax))
	}
	if t.TradeDate.IsZero() {
		errs = append(errs, errors.New("trade date is missing"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidTransaction, errors.Join(errs...))
	}
	return nil
}

// ValidateTransactions validates every transaction and returns the first
// failure, identified by its position in txs.
func ValidateTransactions(txs []Transaction) error {
	for i, tx := range txs {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction #%d: %w", i, err)
		}
	}
	return nil
}

// tradeDateLayouts are the accepted forms of "trade_date", most precise first.
var tradeDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// ParseTradeDate parses an ISO-8601 timestamp or a plain date. Dates without
// a zone are read as UTC.
func ParseTradeDate(s string) (time.Time, error) {
	for _, layout := range tradeDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid trade date %q", s)
}

// MarshalJSON writes the transaction with its fields in a stable order and
// amounts as JSON numbers.
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Optional("id", t.ID)
	w.Append("type", t.Type)
	w.Append("price", json.Number(t.Price.String()))
	w.Append("quantity", t.Quantity)
	w.Append("fee", json.Number(t.Fee.String()))
	w.Append("tax", json.Number(t.Tax.String()))
	w.Append("trade_date", t.TradeDate.Format(time.RFC3339Nano))
	return w.MarshalJSON()
}

// UnmarshalJSON reads the wire form. Missing fee and tax default to zero.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var j struct {
		ID        string          `json:"id"`
		Type      Side            `json:"type"`
		Price     decimal.Decimal `json:"price"`
		Quantity  Quantity        `json:"quantity"`
		Fee       decimal.Decimal `json:"fee"`
		Tax       decimal.Decimal `json:"tax"`
		TradeDate string          `json:"trade_date"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	var on time.Time
	if j.TradeDate != "" {
		var err error
		if on, err = ParseTradeDate(j.TradeDate); err != nil {
			return err
		}
	}
	*t = Transaction{
		ID:        j.ID,
		Type:      j.Type,
		Price:     j.Price,
		Quantity:  j.Quantity,
		Fee:       j.Fee,
		Tax:       j.Tax,
		TradeDate: on,
	}
	return nil
}
