package analytics

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// money renders an amount rounded to a whole number with thousands
// separators. Currency symbols are left to the client.
func money(d decimal.Decimal) string {
	return message.NewPrinter(language.English).Sprintf("%d", d.Round(0).IntPart())
}

// pct renders a percentage rounded to a whole number.
func pct(d decimal.Decimal) string {
	return d.Round(0).StringFixed(0)
}
