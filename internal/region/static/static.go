// Package static holds the compiled-in period-to-countries table. It is the
// cheap, year-blind tier: exact name match first, then case-insensitive.
package static

import (
	"strings"

	"eramap/internal/region/models"
	"eramap/pkg/countries"
)

var table = map[string][]string{
	"Roman Empire":      {"IT", "FR", "ES", "GR", "TR", "EG", "GB"},
	"Viking Age":        {"NO", "SE", "DK", "GB", "IE"},
	"Ottoman Empire":    {"TR", "GR", "BG", "RS", "EG"},
	"Byzantine Empire":  {"TR", "GR"},
	"Mongol Empire":     {"MN", "CN", "RU", "KZ"},
	"Ancient Egypt":     {"EG"},
	"Ancient Greece":    {"GR", "TR", "IT"},
	"British Empire":    {"GB", "IN", "CA", "AU", "NZ", "ZA"},
	"Holy Roman Empire": {"DE", "AT", "CZ", "IT"},
	"Soviet Union":      {"RU", "UA", "BY", "KZ", "UZ", "GE", "AM", "AZ", "LT", "LV", "EE", "MD"},
	"Persian Empire":    {"IR", "IQ", "TR", "EG"},
	"Cold War":          {"US", "RU", "DE"},
	"Renaissance":       {"IT", "FR", "NL", "BE"},
	"Industrial Revolution": {"GB", "DE", "FR", "US", "BE"},
}

// lowered is derived once so case-insensitive lookups stay O(1).
var lowered = func() map[string][]string {
	m := make(map[string][]string, len(table))
	for k, v := range table {
		m[strings.ToLower(k)] = v
	}
	return m
}()

// LiteralCode treats a trimmed 2-character input as a bare country code and
// returns it uppercased. Checked before any table lookup at every entry point
// that offers the shortcut; the code is not required to be on the allowlist
// here because static data is operator-curated.
func LiteralCode(input string) (string, bool) {
	trimmed := strings.TrimSpace(input)
	if len(trimmed) != 2 {
		return "", false
	}
	return countries.Normalize(trimmed), true
}

// Lookup returns the static country set for a period, or an empty slice when
// the period is unknown.
func Lookup(period string) []string {
	if set, ok := table[period]; ok {
		return models.NormalizeSet(set)
	}
	if set, ok := lowered[strings.ToLower(strings.TrimSpace(period))]; ok {
		return models.NormalizeSet(set)
	}
	return nil
}
