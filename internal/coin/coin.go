// Package coin parses coin type tags, reads coin balances and renders
// integer on-chain amounts for display.
package coin

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mtlprog/suiledger/internal/domain"
)

var (
	// ErrInvalidCoinTypeFormat is returned when a type string is not "package::module::name".
	ErrInvalidCoinTypeFormat = errors.New("invalid coin type format")
	// ErrNotACoinObject is returned when balance extraction is attempted on a non-coin object.
	ErrNotACoinObject = errors.New("not a coin object")
	// ErrInvalidBalance is returned when a coin's balance field is not a non-negative integer.
	ErrInvalidBalance = errors.New("invalid coin balance")
)

const (
	frameworkPackage = "0x2"
	coinModule       = "coin"
	coinStruct       = "Coin"
)

var (
	coinTypeRegex = regexp.MustCompile(`^([A-Za-z0-9_]+)::([A-Za-z_][A-Za-z0-9_]*)::([A-Za-z_][A-Za-z0-9_]*)$`)
	coinWrapRegex = regexp.MustCompile(`^([A-Za-z0-9_]+)::` + coinModule + `::` + coinStruct + `(?:<(.+)>)?$`)
)

// ParseCoinType parses a canonical "package::module::name" coin type string.
func ParseCoinType(typeString string) (domain.CoinTypeTag, error) {
	m := coinTypeRegex.FindStringSubmatch(strings.TrimSpace(typeString))
	if m == nil {
		return domain.CoinTypeTag{}, fmt.Errorf("%w: %q", ErrInvalidCoinTypeFormat, typeString)
	}
	return domain.CoinTypeTag{Package: m[1], Module: m[2], Name: m[3]}, nil
}

// IsCoin reports whether objectType is the framework's generic Coin wrapper,
// for the native coin or any other coin type.
func IsCoin(objectType string) bool {
	m := coinWrapRegex.FindStringSubmatch(strings.TrimSpace(objectType))
	return m != nil && normalizePackage(m[1]) == frameworkPackage
}

// CoinTypeArg returns the coin type wrapped by a Coin object type,
// e.g. "0x2::sui::SUI" for "0x2::coin::Coin<0x2::sui::SUI>".
func CoinTypeArg(objectType string) (string, bool) {
	m := coinWrapRegex.FindStringSubmatch(strings.TrimSpace(objectType))
	if m == nil || normalizePackage(m[1]) != frameworkPackage || m[2] == "" {
		return "", false
	}
	return m[2], true
}

// ExtractBalance reads the integer balance stored in a coin object.
// The raw field text is parsed directly into an arbitrary-precision decimal.
func ExtractBalance(obj domain.ObjectSnapshot) (decimal.Decimal, error) {
	if !IsCoin(obj.Type) {
		return decimal.Zero, fmt.Errorf("%w: %s has type %q", ErrNotACoinObject, obj.ObjectID, obj.Type)
	}
	raw := strings.Trim(strings.TrimSpace(obj.Fields.Balance), `"`)
	b, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %q", ErrInvalidBalance, obj.ObjectID, obj.Fields.Balance)
	}
	if b.IsNegative() || !b.Equal(b.Truncate(0)) {
		return decimal.Zero, fmt.Errorf("%w: %s: %s is not a non-negative integer", ErrInvalidBalance, obj.ObjectID, b)
	}
	return b, nil
}

// SymbolForObject derives the coin symbol shown for an object: the wrapped
// coin's name for Coin objects, the type's own name otherwise.
func SymbolForObject(objectType string) (domain.CoinTypeTag, error) {
	typeString := objectType
	if arg, ok := CoinTypeArg(objectType); ok {
		typeString = arg
	}
	return ParseCoinType(typeString)
}

// normalizePackage lower-cases hex addresses and strips their leading zeros,
// so "0x0000000000000000000000000000000000000002" matches "0x2".
func normalizePackage(pkg string) string {
	p := strings.ToLower(pkg)
	if !strings.HasPrefix(p, "0x") {
		return p
	}
	trimmed := strings.TrimLeft(p[2:], "0")
	if trimmed == "" {
		trimmed = "0"
	}
	return "0x" + trimmed
}
