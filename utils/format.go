package utils

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount in dollars with two decimals, e.g. "$9.99".
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

// Stars renders a 0-5 rating as five stars, filling one per whole point.
func Stars(rate float64) string {
	filled := int(math.Floor(rate))
	filled = min(max(filled, 0), 5)
	return strings.Repeat("★", filled) + strings.Repeat("☆", 5-filled)
}

// Truncate shortens s to at most n runes, ending with "…" when cut.
func Truncate(s string, n int) string {
	runes := []rune(s)
	if n <= 0 || len(runes) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(runes[:n-1]) + "…"
}
