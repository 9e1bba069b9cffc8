package utils

import (
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// FormatINR renders an amount for display, e.g. ₹1250.50.
func FormatINR(d decimal.Decimal) string {
	return "₹" + d.StringFixed(2)
}

// FormatPercent renders a fractional rate for display, e.g. 0.015 -> 1.50%.
func FormatPercent(rate decimal.Decimal) string {
	return rate.Mul(hundred).StringFixed(2) + "%"
}
