package handler

import (
	"strings"
	"unicode"
)

const maxInputRunes = 100

// SanitizeInput strips control characters and angle brackets from a query
// parameter and caps it at 100 runes before it reaches any outbound prompt.
func SanitizeInput(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	count := 0
	for _, r := range s {
		if unicode.IsControl(r) || r == '<' || r == '>' {
			continue
		}
		b.WriteRune(r)
		count++
		if count == maxInputRunes {
			break
		}
	}
	return strings.TrimSpace(b.String())
}
