// Package currency converts integer minor-unit amounts between the supported
// currencies. All conversions pivot through EUR and never fail: unknown codes
// and missing rates degrade to a 1:1 rate.
package currency

import (
	"strings"

	xcurrency "golang.org/x/text/currency"
)

// Code is an ISO 4217 currency code.
type Code string

const (
	EUR Code = "EUR"
	USD Code = "USD"
	GBP Code = "GBP"
	JPY Code = "JPY"
)

// Base is the pivot currency every conversion routes through.
const Base = EUR

var supported = []Code{EUR, USD, GBP, JPY}

// Supported returns the currencies the application accepts, base first.
func Supported() []Code {
	out := make([]Code, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether c is one of the accepted currencies.
func IsSupported(c Code) bool {
	for _, s := range supported {
		if s == c {
			return true
		}
	}
	return false
}

// ParseCode normalises s and reports whether it names a supported currency.
func ParseCode(s string) (Code, bool) {
	unit, err := xcurrency.ParseISO(strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return "", false
	}
	code := Code(unit.String())
	return code, IsSupported(code)
}

// Table maps a currency to units per 1 EUR.
type Table map[Code]float64

// Fallback is used whenever the live feed is unavailable.
var Fallback = Table{EUR: 1, USD: 1.09, GBP: 0.84, JPY: 169}

// Rate implements RateSource.
func (t Table) Rate(c Code) (float64, bool) {
	r, ok := t[c]
	return r, ok
}

// Clone returns an independent copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// DailyRates is one snapshot of the rate feed.
type DailyRates struct {
	AsOf  string `json:"date"`
	Rates Table  `json:"rates"`
}

// FallbackRates returns the hardcoded table dated asOf.
func FallbackRates(asOf string) DailyRates {
	return DailyRates{AsOf: asOf, Rates: Fallback.Clone()}
}
