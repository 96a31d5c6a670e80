// Package slug builds URL-safe identifiers for series and figures.
package slug

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Make lowercases s, strips diacritics and collapses every run of
// non-alphanumeric characters into a single hyphen.
func Make(s string) string {
	var b strings.Builder
	pendingDash := false
	for _, r := range norm.NFKD.String(s) {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			if pendingDash && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingDash = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingDash = true
		}
	}
	return b.String()
}

// Base is Make(s), or "item" when s has no usable characters.
func Base(s string) string {
	if b := Make(s); b != "" {
		return b
	}
	return "item"
}

// Unique returns Base(s), suffixed with -2, -3, ... until taken reports false.
func Unique(s string, taken func(string) bool) string {
	base := Base(s)
	candidate := base
	for i := 2; taken(candidate); i++ {
		candidate = base + "-" + strconv.Itoa(i)
	}
	return candidate
}
