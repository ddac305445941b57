package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("FR"))
	assert.True(t, IsValid("MN"))
	assert.False(t, IsValid("fr"), "allowlist is uppercase only")
	assert.False(t, IsValid("XX"), "unassigned code")
	assert.False(t, IsValid("FRA"), "alpha-3 is not accepted")
}

func TestFilter(t *testing.T) {
	t.Run("drops malformed and unknown codes individually", func(t *testing.T) {
		got := Filter([]string{"FR", "fra", "XX", "de", "FR", "  it "})
		assert.Equal(t, []string{"FR", "DE", "IT"}, got)
	})

	t.Run("empty input yields empty output", func(t *testing.T) {
		assert.Empty(t, Filter(nil))
	})
}
