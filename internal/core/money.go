// Package core holds the bill domain model.
//
// This file contains helpers for parsing monetary amounts from user input
// and formatting them for display.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmountValue converts a decimal string to an amount value.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signed input is rejected: amounts are always non-negative.
//
// Examples:
//
//	ParseAmountValue("12.34") -> 12.34, nil
//	ParseAmountValue("12,34") -> 12.34, nil
//	ParseAmountValue("0")     -> 0, nil
//	ParseAmountValue("-5")    -> error
func ParseAmountValue(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if v.IsNegative() {
		return decimal.Zero, ErrInvalidAmount
	}
	return v, nil
}

// CoerceAmountValue parses like ParseAmountValue but never fails:
// invalid input collapses to zero. Used when rehydrating persisted
// snapshots, where a bad value must not lose the rest of the record.
func CoerceAmountValue(s string) decimal.Decimal {
	v, err := ParseAmountValue(s)
	if err != nil {
		return decimal.Zero
	}
	return v
}

// FormatAmount renders an amount for display, e.g. "12.34 EUR".
func FormatAmount(a Amount) string {
	return a.Value.StringFixed(2) + " " + a.Currency
}
