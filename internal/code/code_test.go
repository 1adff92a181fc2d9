package code

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShape(t *testing.T) {
	for i := 0; i < 100; i++ {
		c := Generate()
		assert.Len(t, c, Length)
		for _, r := range c {
			assert.Contains(t, alphabet, string(r))
		}
		assert.Equal(t, strings.ToUpper(c), c)
	}
}

func TestGenerateVaries(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[Generate()] = true
	}
	// 36^6 possible codes makes a collision in 200 draws vanishingly rare.
	assert.Len(t, seen, 200)
}

func TestGenerateCoversAlphabet(t *testing.T) {
	counts := make(map[rune]int, len(alphabet))
	for i := 0; i < 5000; i++ {
		for _, r := range Generate() {
			counts[r]++
		}
	}
	// 30000 characters drawn uniformly leave no character unseen.
	for _, r := range alphabet {
		assert.Greater(t, counts[r], 0, "character %q never generated", r)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "TEAM42", Normalize("team42"))
	assert.Equal(t, "TEAM42", Normalize("  Team42 "))
	assert.Equal(t, "", Normalize("   "))
}
