package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "R$ "

// FormatCurrency renders value as Brazilian reais: two decimals, "." between
// thousands and "," before the cents, e.g. 1234.56 -> "R$ 1.234,56".
func FormatCurrency(value decimal.Decimal) string {
	fixed := value.StringFixed(2)

	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}
	if fixed == "0.00" {
		sign = ""
	}

	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(currencyPrefix)
	b.WriteString(sign)
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(digit)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

// FormatFloat is FormatCurrency for values that are already float64
func FormatFloat(value float64) string {
	return FormatCurrency(decimal.NewFromFloat(value))
}

// Float converts an amount for JSON payloads that expose numbers
func Float(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}
