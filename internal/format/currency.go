package format

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CurrencySymbol is prefixed to every formatted amount.
const CurrencySymbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// FormatCurrency renders a whole-rupiah amount the way id-ID displays IDR,
// e.g. 1500000 -> "Rp 1.500.000".
func FormatCurrency(amount int64) string {
	if amount < 0 {
		// -amount would overflow for MinInt64; group the digits of the
		// unsigned value instead.
		return "-" + CurrencySymbol + " " + printer.Sprintf("%d", uint64(-(amount+1))+1)
	}
	return CurrencySymbol + " " + printer.Sprintf("%d", amount)
}

// FormatDecimalCurrency rounds to the nearest rupiah before formatting.
func FormatDecimalCurrency(amount decimal.Decimal) string {
	return FormatCurrency(amount.Round(0).IntPart())
}
