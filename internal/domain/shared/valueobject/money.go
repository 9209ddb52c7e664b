package valueobject

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// centsPerUnit is the number of minor units in one major currency unit
var centsPerUnit = decimal.NewFromInt(100)

// MaxCents is the largest amount, in cents, an INTEGER amount column holds
const MaxCents = math.MaxInt32

var maxCents = decimal.NewFromInt(MaxCents)

// ErrInvalidAmount is returned when a raw amount cannot be read as a number
var ErrInvalidAmount = errors.New("invalid amount")

// Money is a value object representing a dollar amount.
// It is immutable - all operations return new Money instances
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a new Money from a decimal amount
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount}
}

// NewMoneyFromString parses a raw form value such as "19.99" or " 1e2 ".
// Surrounding whitespace is ignored; an empty string reads as zero.
func NewMoneyFromString(raw string) (Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Money{amount: decimal.Zero}, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, raw)
	}
	return Money{amount: d}, nil
}

// NewMoneyFromCents creates Money from an integer number of cents
func NewMoneyFromCents(cents int64) Money {
	return Money{amount: decimal.NewFromInt(cents).Div(centsPerUnit)}
}

// Amount returns the decimal amount
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// IsPositive returns true if the amount is strictly greater than zero
func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

// Cents converts the amount to integer minor units.
// Half cents round away from zero, so 10.005 becomes 1001, while 0.004 becomes 0.
// The result is only meaningful when FitsCents is true.
func (m Money) Cents() int64 {
	return m.roundedCents().IntPart()
}

// FitsCents reports whether the rounded cents value lies within ±MaxCents
func (m Money) FitsCents() bool {
	return m.roundedCents().Abs().LessThanOrEqual(maxCents)
}

func (m Money) roundedCents() decimal.Decimal {
	return m.amount.Mul(centsPerUnit).Round(0)
}

// Equals checks if two Money values are equal
func (m Money) Equals(other Money) bool {
	return m.amount.Equal(other.amount)
}

// String returns the amount with two decimal places
func (m Money) String() string {
	return m.amount.StringFixed(2)
}

// Format returns the amount formatted as a dollar string, e.g. "$1,234.50"
func (m Money) Format() string {
	s := m.amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	sign := ""
	if m.amount.IsNegative() {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}
