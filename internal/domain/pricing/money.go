package pricing

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Prices are stored as plain decimals; display formatting targets the
// Indonesian Rupiah locale used by the product UI.
var idrPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders an amount as an Indonesian Rupiah display string,
// e.g. "Rp 210.000". Rupiah has no minor unit in practice, so the
// amount is rounded to whole units first.
func FormatIDR(amount decimal.Decimal) string {
	v, _ := amount.Round(0).Float64()
	return idrPrinter.Sprintf("%v", currency.NarrowSymbol(currency.IDR.Amount(v)))
}
