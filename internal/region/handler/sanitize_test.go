package handler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain", "Roman Empire", "Roman Empire"},
		{"angle brackets stripped", "<script>alert(1)</script>", "scriptalert(1)/script"},
		{"control characters stripped", "Rome\x00\x1b[31m", "Rome[31m"},
		{"newlines and tabs stripped", "Viking\n\tAge", "VikingAge"},
		{"trimmed", "  Edo Period  ", "Edo Period"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeInput(tt.input))
		})
	}
}

func TestSanitizeInputCapsLength(t *testing.T) {
	long := strings.Repeat("a", 500)
	assert.Len(t, SanitizeInput(long), 100)
}
