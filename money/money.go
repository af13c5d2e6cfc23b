// Package money provides an exact-decimal monetary value with dual
// precision: a full-precision raw value for arithmetic and a 2-decimal-place
// "real" value for comparison and display. It never introduces binary
// floating-point rounding of its own, modeling every monetary field as a
// decimal.Decimal rather than a float64.
package money

import (
	"fmt"
	"math"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/tomascorrea/money-warp/internal/loanerr"
)

// Money is an immutable exact-decimal monetary value. The zero value is not
// usable; construct with New, FromString, FromInt, FromCents, or FromFloat.
type Money struct {
	raw  decimal.Decimal
	real decimal.Decimal
}

// New builds a Money from a decimal.Decimal.
func New(raw decimal.Decimal) Money {
	return Money{raw: raw, real: raw.Round(2)}
}

// FromString parses a decimal string into Money.
func FromString(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, loanerr.InvalidInput{Field: "money", Reason: err.Error()}
	}
	return New(d), nil
}

// FromInt builds a Money from an integer number of whole units.
func FromInt(i int64) Money {
	return New(decimal.NewFromInt(i))
}

// FromCents builds a Money from an integer number of cents.
func FromCents(cents int64) Money {
	return New(decimal.New(cents, -2))
}

// FromFloat builds Money from a float64 by stringifying it first, so no
// binary rounding leaks into the decimal representation. Construction fails
// for a non-finite value (NaN or ±Inf). This constructor exists for call
// sites that only have a float (e.g. JSON numbers); it is never the default
// path — prefer FromString or New(decimal.Decimal) when a decimal source is
// available.
func FromFloat(f float64) (Money, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}, loanerr.InvalidInput{Field: "money", Reason: "non-finite value"}
	}
	d, err := decimal.NewFromString(strconv.FormatFloat(f, 'f', -1, 64))
	if err != nil {
		return Money{}, loanerr.InvalidInput{Field: "money", Reason: err.Error()}
	}
	return New(d), nil
}

// Zero is the additive identity.
var Zero = Money{raw: decimal.Zero, real: decimal.Zero}

// Raw returns the full-precision decimal value.
func (m Money) Raw() decimal.Decimal { return m.raw }

// Real returns the 2-decimal-place value used for comparison and display.
func (m Money) Real() decimal.Decimal { return m.real }

// Add returns m + other, preserving raw precision.
func (m Money) Add(other Money) Money { return New(m.raw.Add(other.raw)) }

// Sub returns m - other, preserving raw precision.
func (m Money) Sub(other Money) Money { return New(m.raw.Sub(other.raw)) }

// Neg returns -m.
func (m Money) Neg() Money { return New(m.raw.Neg()) }

// Abs returns |m|.
func (m Money) Abs() Money { return New(m.raw.Abs()) }

// Mul multiplies by a decimal scalar, preserving raw precision.
func (m Money) Mul(scalar decimal.Decimal) Money { return New(m.raw.Mul(scalar)) }

// Div divides by a decimal scalar, preserving raw precision.
func (m Money) Div(scalar decimal.Decimal) Money { return New(m.raw.Div(scalar)) }

// Cents returns the 2-decimal-place value as an integer number of cents.
func (m Money) Cents() int64 {
	return m.real.Mul(decimal.New(100, 0)).Round(0).IntPart()
}

// IsZero reports whether the display value is zero.
func (m Money) IsZero() bool { return m.real.IsZero() }

// IsPositive reports whether the display value is strictly positive.
func (m Money) IsPositive() bool { return m.real.IsPositive() }

// IsNegative reports whether the display value is strictly negative.
func (m Money) IsNegative() bool { return m.real.IsNegative() }

// Equal compares by the 2-decimal-place display value.
func (m Money) Equal(other Money) bool { return m.real.Equal(other.real) }

// GreaterThan compares by the 2-decimal-place display value.
func (m Money) GreaterThan(other Money) bool { return m.real.GreaterThan(other.real) }

// LessThan compares by the 2-decimal-place display value.
func (m Money) LessThan(other Money) bool { return m.real.LessThan(other.real) }

// GreaterThanOrEqual compares by the 2-decimal-place display value.
func (m Money) GreaterThanOrEqual(other Money) bool { return m.real.GreaterThanOrEqual(other.real) }

// LessThanOrEqual compares by the 2-decimal-place display value.
func (m Money) LessThanOrEqual(other Money) bool { return m.real.LessThanOrEqual(other.real) }

// CompareDecimal compares the display value against a raw decimal scalar.
func (m Money) CompareDecimal(other decimal.Decimal) int { return m.real.Cmp(other) }

// Max returns the larger of two Money values by display value.
func Max(a, b Money) Money {
	if a.GreaterThanOrEqual(b) {
		return a
	}
	return b
}

// Min returns the smaller of two Money values by display value.
func Min(a, b Money) Money {
	if a.LessThanOrEqual(b) {
		return a
	}
	return b
}

// Quantized returns a Money whose raw value equals its 2-decimal-place
// display value — i.e. a value with no sub-cent precision left. Schedulers
// use this to carry cent-rounded amounts forward period to period the way a
// real ledger would, instead of letting sub-cent fractions silently
// accumulate in a schedule's raw precision.
func (m Money) Quantized() Money {
	return Money{raw: m.real, real: m.real}
}

// Sum adds a slice of Money values, returning Zero for an empty slice.
func Sum(values ...Money) Money {
	total := Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// String renders the display value with thousands grouping, half-up
// rounding already baked into real at construction time.
func (m Money) String() string {
	return formatGrouped(m.real)
}

func formatGrouped(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().StringFixed(2)
	dot := len(s) - 3
	intPart, fracPart := s[:dot], s[dot:]

	var grouped []byte
	for i, c := range []byte(intPart) {
		if i != 0 && (len(intPart)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, c)
	}
	out := string(grouped) + fracPart
	if neg {
		out = "-" + out
	}
	return out
}

// GoString supports %#v-style debugging output.
func (m Money) GoString() string {
	return fmt.Sprintf("money.New(decimal.RequireFromString(%q))", m.raw.String())
}
