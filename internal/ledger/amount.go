package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// Amount is a decimal quantity of money. It is serialized as a bare JSON
// number and keeps full precision; rounding happens only in Format.
type Amount struct {
	d decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount { return Amount{d: d} }

func AmountFromInt(v int64) Amount { return Amount{d: decimal.NewFromInt(v)} }

// ParseAmount reads a user-entered amount such as "12.50" or "1,425".
func ParseAmount(s string) (Amount, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return Amount{}, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}

	return Amount{d: d}, nil
}

// MustAmount is like ParseAmount but panics on error.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}

	return a
}

func (a Amount) Decimal() decimal.Decimal   { return a.d }
func (a Amount) Add(b Amount) Amount        { return Amount{d: a.d.Add(b.d)} }
func (a Amount) Sub(b Amount) Amount        { return Amount{d: a.d.Sub(b.d)} }
func (a Amount) Neg() Amount                { return Amount{d: a.d.Neg()} }
func (a Amount) Abs() Amount                { return Amount{d: a.d.Abs()} }
func (a Amount) Mul(b Amount) Amount        { return Amount{d: a.d.Mul(b.d)} }
func (a Amount) Equal(b Amount) bool        { return a.d.Equal(b.d) }
func (a Amount) Cmp(b Amount) int           { return a.d.Cmp(b.d) }
func (a Amount) IsPositive() bool           { return a.d.IsPositive() }
func (a Amount) IsNegative() bool           { return a.d.IsNegative() }
func (a Amount) IsZero() bool               { return a.d.IsZero() }
func (a Amount) String() string             { return a.d.String() }
func (a Amount) InexactFloat64() float64    { return a.d.InexactFloat64() }
func (a Amount) StringFixed(p int32) string { return a.d.StringFixed(p) }

// Format renders the amount in the given ISO 4217 currency, e.g. "$1,425.00".
// Unknown currency codes fall back to two fixed decimals.
func (a Amount) Format(currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return a.d.StringFixed(2)
	}

	minor := a.d.Shift(int32(cur.Fraction)).Round(0)

	return cur.Formatter().Format(minor.IntPart())
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.d.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAmount, err)
	}

	a.d = d

	return nil
}
