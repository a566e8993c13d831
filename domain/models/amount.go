package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits kept for every amount and balance.
const Precision = 4

// maxMagnitude bounds every amount to the integer range of a signed 128-bit
// fixed-point number with 15 fractional bits.
var maxMagnitude = decimal.RequireFromString("5192296858534827628530496329220095")

var (
	// Zero is the zero amount.
	Zero = Amount{}

	one      = Amount{d: decimal.NewFromInt(1)}
	minusOne = Amount{d: decimal.NewFromInt(-1)}
)

// Amount is a bounded fixed-point decimal. Arithmetic is checked: results that
// leave the representable range are reported instead of returned.
type Amount struct {
	d decimal.Decimal
}

// NewAmount converts a decimal, reporting whether it is in range.
func NewAmount(d decimal.Decimal) (Amount, bool) {
	return checked(d)
}

// MustAmount parses s and panics on failure. Intended for tests and constants.
func MustAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// ParseAmount parses a decimal string, rounding to Precision fractional digits.
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("%q: %w", s, ErrInvalidAmount)
	}
	a, ok := checked(d.Round(Precision))
	if !ok {
		return Zero, fmt.Errorf("%q: %w", s, ErrAmountOutOfRange)
	}
	return a, nil
}

func checked(d decimal.Decimal) (Amount, bool) {
	if d.Abs().GreaterThan(maxMagnitude) {
		return Zero, false
	}
	return Amount{d: d}, true
}

// CheckedAdd returns a+b, or false on overflow.
func (a Amount) CheckedAdd(b Amount) (Amount, bool) {
	return checked(a.d.Add(b.d))
}

// CheckedSub returns a-b, or false on overflow.
func (a Amount) CheckedSub(b Amount) (Amount, bool) {
	return checked(a.d.Sub(b.d))
}

// CheckedMul returns a*b, or false on overflow.
func (a Amount) CheckedMul(b Amount) (Amount, bool) {
	return checked(a.d.Mul(b.d))
}

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) IsZero() bool { return a.d.IsZero() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

func (a Amount) Cmp(b Amount) int { return a.d.Cmp(b.d) }

// Decimal exposes the underlying value.
func (a Amount) Decimal() decimal.Decimal { return a.d }

// String renders the amount with exactly Precision fractional digits.
func (a Amount) String() string {
	return a.d.StringFixed(Precision)
}

// MarshalText renders the fixed-precision form.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText accepts the same forms as ParseAmount.
func (a *Amount) UnmarshalText(text []byte) error {
	parsed, err := ParseAmount(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
