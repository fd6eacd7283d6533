package render

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatBRL formats an amount as "R$ 1.234,56", sign before the digits.
func FormatBRL(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if d.Round(2).IsNegative() {
		sign = "-"
	}
	return "R$ " + sign + b.String() + "," + frac
}
