// Package format provides the pure formatting utilities used by document
// generation: money, dates, proposal numbers, filenames, QR data URIs.
package format

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"CAD": "CA$",
	"AUD": "A$",
	"JPY": "¥",
}

// Currency renders an amount with thousands grouping and two decimals,
// prefixed with the symbol for the currency code. Unknown codes fall back to
// "<CODE> <amount>". An empty code means USD.
func Currency(amount float64, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = "USD"
	}

	formatted := printer.Sprint(number.Decimal(amount, number.Scale(2)))

	symbol, ok := currencySymbols[code]
	if !ok {
		return fmt.Sprintf("%s %s", code, formatted)
	}
	return symbol + formatted
}
