package refcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	code := New()
	assert.Len(t, code, Length)
	for _, r := range code {
		valid := (r >= '0' && r <= '9') || (r >= 'A' && r <= 'Z')
		assert.True(t, valid, "unexpected character %q in %s", r, code)
	}
}

func TestNewVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[New()] = true
	}
	// Collisions are possible but vanishingly unlikely in 1000 draws.
	assert.Greater(t, len(seen), 990)
}
