package templates

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

// FormatCount renders an integer with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprint(number.Decimal(n))
}

// FormatDecimal renders a float with thousands separators and exactly the given number of decimals.
func FormatDecimal(v float64, decimals int) string {
	return printer.Sprint(number.Decimal(v, number.Scale(decimals)))
}

// FormatBytes renders a byte count in mebibytes.
func FormatBytes(n int64) string {
	return FormatDecimal(float64(n)/(1<<20), 1) + " MiB"
}
