// Package core provides the expense data model.
//
// This file contains the Money type and the parsing of user supplied amounts.
// Amounts are kept as exact decimals so that totals never drift.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal monetary amount in an unspecified currency.
type Money struct {
	Value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Money{}

// Amounts are bounded by what a float64 can hold. Beyond that, formatting a
// decimal would expand hundreds of millions of digits.
const (
	maxMagnitude = 308  // largest decimal exponent of a finite float64
	minMagnitude = -324 // values below this round to zero as a float64
)

// finite clamps d into float64 range: too large is not finite, too small is zero.
func finite(d decimal.Decimal) (decimal.Decimal, bool) {
	if d.IsZero() {
		return d, true
	}
	// Order of magnitude of the leading digit.
	magnitude := d.NumDigits() + int(d.Exponent()) - 1
	switch {
	case magnitude > maxMagnitude:
		return decimal.Zero, false
	case magnitude < minMagnitude:
		return decimal.Zero, true
	}
	return d, true
}

// NewMoney builds a Money from a float. Intended for tests and literals.
func NewMoney(f float64) Money {
	return Money{Value: decimal.NewFromFloat(f)}
}

// ParseAmount parses a user supplied amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and
// scientific notation. The result must be strictly positive.
//
// Examples:
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> 0, ErrInvalidAmount
//	ParseAmount("abc")   -> 0, ErrInvalidAmount
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, ErrInvalidAmount
	}
	d, ok := finite(d)
	if !ok {
		return Zero, ErrInvalidAmount
	}
	m := Money{Value: d}
	if err := m.Validate(); err != nil {
		return Zero, err
	}
	return m, nil
}

// Validate reports ErrInvalidAmount unless the amount is greater than zero.
func (m Money) Validate() error {
	if !m.Value.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// Add returns m + o.
func (m Money) Add(o Money) Money {
	return Money{Value: m.Value.Add(o.Value)}
}

// Cmp compares two amounts numerically.
func (m Money) Cmp(o Money) int {
	return m.Value.Cmp(o.Value)
}

// Equal reports whether both amounts are numerically equal.
func (m Money) Equal(o Money) bool {
	return m.Value.Equal(o.Value)
}

// Fixed2 renders the amount with exactly two decimals, rounding half away from zero.
func (m Money) Fixed2() string {
	return m.Value.StringFixed(2)
}

// Float64 returns the amount as a float for display purposes.
// Note: use Money for arithmetic to avoid floating-point drift.
func (m Money) Float64() float64 {
	return m.Value.InexactFloat64()
}

func (m Money) String() string {
	return m.Value.String()
}

// MarshalJSON stores the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Value.String()), nil
}

// UnmarshalJSON never fails: anything that is not numeric becomes zero.
func (m *Money) UnmarshalJSON(data []byte) error {
	*m = CoerceAmount(data)
	return nil
}
