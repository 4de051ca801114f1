package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	value = strings.TrimSpace(value)
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// GasUsed computes computation + storage - rebate without any float intermediate.
func GasUsed(computationCost, storageCost, storageRebate decimal.Decimal) decimal.Decimal {
	return computationCost.Add(storageCost).Sub(storageRebate)
}

// TrimZeros renders d with at most places fractional digits, stripping trailing zeros.
func TrimZeros(d decimal.Decimal, places int32) string {
	s := d.StringFixed(places)
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
