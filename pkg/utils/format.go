package utils

import (
	"fmt"
)

// FormatRatio renders a nullable ratio value with two decimals, or "N/A".
func FormatRatio(value *float64) string {
	if value == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *value)
}

// FormatPercent renders a fractional value as a signed percentage.
func FormatPercent(value float64) string {
	return fmt.Sprintf("%+.2f%%", value*100)
}

// FormatPrice renders a price with four decimals.
func FormatPrice(value float64) string {
	return fmt.Sprintf("%.4f", value)
}
