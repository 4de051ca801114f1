package coin

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/domain"
)

// ErrInvalidAmount is returned for user input that is not a non-negative decimal.
var ErrInvalidAmount = errors.New("invalid amount")

// Bounds on user-supplied amount text. On-chain amounts are at most u256 (78 digits).
const (
	maxAmountLength   = 80
	maxAmountExponent = 80
)

// parseDecimal parses a non-negative decimal of bounded size.
func parseDecimal(text string) (decimal.Decimal, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return decimal.Zero, fmt.Errorf("%w: empty input", ErrInvalidAmount)
	}
	if len(text) > maxAmountLength {
		return decimal.Zero, fmt.Errorf("%w: longer than %d characters", ErrInvalidAmount, maxAmountLength)
	}
	d, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	if exp := d.Exponent(); exp > maxAmountExponent || exp < -maxAmountExponent {
		return decimal.Zero, fmt.Errorf("%w: exponent of %q out of range", ErrInvalidAmount, text)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidAmount, text)
	}
	return d, nil
}

// ParseBalance parses an integer balance in the coin's smallest unit.
func ParseBalance(text string) (decimal.Decimal, error) {
	d, err := parseDecimal(text)
	if err != nil {
		return decimal.Zero, err
	}
	if !d.Equal(d.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%w: %q is not an integer", ErrInvalidAmount, text)
	}
	return d, nil
}

// ParseUserInput converts a user-entered decimal string into smallest units:
// text * denomination rounded to the nearest integer, half away from zero.
// Sub-unit digits beyond the denomination are rounded away, so the result is
// suitable for building a request but not for exact accounting.
func ParseUserInput(text string, denomination decimal.Decimal) (decimal.Decimal, error) {
	d, err := parseDecimal(text)
	if err != nil {
		return decimal.Zero, err
	}
	return d.Mul(denomination).Round(0), nil
}

// ParseAmount parses user input for the given coin using the registry's denomination.
func (r *Registry) ParseAmount(text string, coinType domain.CoinTypeTag) (decimal.Decimal, error) {
	return ParseUserInput(text, r.Denomination(coinType))
}
