package market

import (
	"fmt"
	"strings"
)

// FormatNumber renders large values with K/M/B suffixes.
func FormatNumber(n float64) string {
	abs := n
	if abs < 0 {
		abs = -abs
	}
	switch {
	case abs >= 1_000_000_000:
		return fmt.Sprintf("%.2fB", n/1_000_000_000)
	case abs >= 1_000_000:
		return fmt.Sprintf("%.2fM", n/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.2fK", n/1_000)
	default:
		return fmt.Sprintf("%.2f", n)
	}
}

// FormatRupees renders an amount as "Rs. 1,234,567.89".
func FormatRupees(amount float64) string {
	return "Rs. " + groupDigits(fmt.Sprintf("%.2f", amount))
}

// groupDigits inserts thousands separators into a plain decimal string.
func groupDigits(s string) string {
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}
	out := sign + b.String()
	if fracPart != "" {
		out += "." + fracPart
	}
	return out
}
