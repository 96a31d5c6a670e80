package currency

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

var symbols = map[Code]string{
	EUR: "€",
	USD: "$",
	GBP: "£",
	JPY: "¥",
}

// Format renders amount (minor units) for display, e.g. "€1,234.50".
func Format(amount int64, code Code) string {
	sym, ok := symbols[code]
	if !ok {
		sym = string(code) + " "
	}
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return sign + sym + printer.Sprintf("%.2f", float64(amount)/100)
}
