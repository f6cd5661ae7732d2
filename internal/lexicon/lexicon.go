// Package lexicon maps natural-language currency names and aliases to
// ISO-like currency codes.
package lexicon

import (
	"sort"
	"strings"
)

// Alias binds one natural-language name to a currency code.
type Alias struct {
	Name string
	Code string
}

// aliases lists every known currency name. Order matters: the currency
// detector scans these in order, so aliases of the same currency are grouped
// and more common currencies come first.
var aliases = []Alias{
	{"euro", "EUR"}, {"eur", "EUR"}, {"euros", "EUR"},
	{"dolar", "USD"}, {"dólar", "USD"}, {"dólares", "USD"}, {"dolares", "USD"}, {"usd", "USD"},
	{"libra", "GBP"}, {"libras", "GBP"}, {"gbp", "GBP"},
	{"yen", "JPY"}, {"yenes", "JPY"}, {"jpy", "JPY"},
	{"franco suizo", "CHF"}, {"chf", "CHF"},
	{"dolar canadiense", "CAD"}, {"dólar canadiense", "CAD"}, {"cad", "CAD"},
	{"dolar australiano", "AUD"}, {"dólar australiano", "AUD"}, {"aud", "AUD"},
	{"yuan", "CNY"}, {"cny", "CNY"},
	{"peso mexicano", "MXN"}, {"mxn", "MXN"},
	{"real brasileño", "BRL"}, {"real brasileno", "BRL"}, {"brl", "BRL"},
}

var (
	byName = make(map[string]string, len(aliases))
	codes  = make(map[string]struct{})
)

func init() {
	for _, a := range aliases {
		byName[a.Name] = a.Code
		codes[a.Code] = struct{}{}
	}
}

// Resolve looks up a currency name or alias (case-insensitive).
func Resolve(name string) (string, bool) {
	code, ok := byName[strings.ToLower(strings.TrimSpace(name))]
	return code, ok
}

// Normalize maps an alias to its code; unknown tokens pass through uppercased.
func Normalize(name string) string {
	if code, ok := Resolve(name); ok {
		return code
	}
	return strings.ToUpper(strings.TrimSpace(name))
}

// IsCode reports whether the token is a known currency code (case-insensitive).
func IsCode(token string) bool {
	_, ok := codes[strings.ToUpper(token)]
	return ok
}

// Aliases returns the full alias list in scan order.
func Aliases() []Alias {
	out := make([]Alias, len(aliases))
	copy(out, aliases)
	return out
}

// Codes returns the distinct known currency codes, sorted.
func Codes() []string {
	out := make([]string, 0, len(codes))
	for c := range codes {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}
