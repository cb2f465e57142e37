// Package currencyutils provides amount parsing and formatting helpers used
// by the CSV ingestor and the insights queries.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var currencySymbols = regexp.MustCompile(`[€$£¥\s]`)

// ParseAmount parses a bank-statement amount string into a decimal value.
// It accepts currency symbols, thousands separators and accounting-style
// parenthesized negatives: "$1,234.56", "(50.00)", "-987.65".
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	s := strings.TrimSpace(amountStr)
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}

	// Accounting convention: (50.00) means -50.00
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = StandardizeAmount(s)

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// StandardizeAmount strips currency symbols and thousands separators so the
// result can be handed to decimal.NewFromString. A comma is treated as a
// decimal separator only when it is the sole separator with at most two
// trailing digits (European style "1234,56").
func StandardizeAmount(amountStr string) string {
	s := currencySymbols.ReplaceAllString(amountStr, "")

	if strings.Contains(s, ",") && strings.Contains(s, ".") {
		if strings.LastIndex(s, ".") < strings.LastIndex(s, ",") {
			// European format 1.234,56
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// US format 1,234.56
			s = strings.ReplaceAll(s, ",", "")
		}
	} else if strings.Contains(s, ",") {
		parts := strings.Split(s, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			// Comma as decimal separator (1234,56)
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			// Comma as thousands separator (1,234 or 1,234,567)
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	// Apostrophes used as thousands separators (1'234.56)
	s = strings.ReplaceAll(s, "'", "")

	return s
}

// FormatAmount renders a decimal with two fixed decimal places.
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// IsNegative checks if an amount is negative
func IsNegative(amount decimal.Decimal) bool {
	return amount.LessThan(decimal.Zero)
}
