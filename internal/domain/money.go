package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

var maxAmountMagnitude = decimal.New(1, MaxAmountDigits-AmountDecimalPlaces)

// Literal and exponent bounds checked before any decimal arithmetic; rescaling
// a value like 1e-9999999 allocates a bignum of that many digits.
const (
	maxAmountLiteralLength = 32
	minAmountExponent      = -(MaxAmountDigits + AmountDecimalPlaces)
	maxAmountExponent      = MaxAmountDigits
)

// ValidateAmount checks that d fits a NUMERIC(10,2) column exactly: no more
// than 2 fractional digits once trailing zeros are dropped, and no more than
// 8 integer digits.
func ValidateAmount(d decimal.Decimal) error {
	if exp := d.Exponent(); exp < minAmountExponent || exp > maxAmountExponent {
		return ErrInvalidAmount
	}
	if !d.Equal(d.Truncate(AmountDecimalPlaces)) {
		return ErrInvalidAmount
	}
	if d.Abs().GreaterThanOrEqual(maxAmountMagnitude) {
		return ErrInvalidAmount
	}
	return nil
}

// ParseAmount parses a decimal string and validates it with ValidateAmount.
// The result is normalized to 2 decimal places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" || len(s) > maxAmountLiteralLength {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if err := ValidateAmount(d); err != nil {
		return decimal.Zero, err
	}
	return d.Round(AmountDecimalPlaces), nil
}
