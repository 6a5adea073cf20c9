// Package money formats amounts for display.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatINR formats an amount in whole rupees with Indian digit grouping,
// e.g. 1200000 -> "₹12,00,000". Fractions are rounded half away from zero.
func FormatINR(amount decimal.Decimal) string {
	rounded := amount.Round(0)
	neg := rounded.IsNegative()
	s := rounded.Abs().String()

	var b strings.Builder
	b.Grow(len(s) + len(s)/2 + 5)
	if neg {
		b.WriteString("-")
	}
	b.WriteString("₹")
	b.WriteString(groupIndian(s))
	return b.String()
}

// groupIndian inserts separators after the last three digits and then after
// every two digits.
func groupIndian(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	head, tail := digits[:len(digits)-3], digits[len(digits)-3:]

	var b strings.Builder
	rem := len(head) % 2
	if rem == 1 {
		b.WriteString(head[:1])
	}
	for i := rem; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}
