package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, Ratio("acme", "acme"))
	assert.Equal(t, 100, Ratio("", ""))
	assert.Equal(t, 0, Ratio("abcd", "wxyz"))

	// Single edit over 5 runes: 80.
	assert.Equal(t, 80, Ratio("acmes", "acmey"))
}

func TestPartialRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, PartialRatio("acme", "acme holdings of norway"))
	assert.Equal(t, 100, PartialRatio("acme holdings of norway", "acme"))
	assert.Equal(t, 0, PartialRatio("", "acme"))
	assert.Greater(t, PartialRatio("acmex", "acme holdings"), 60)
}

func TestTokenSortRatio(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 100, TokenSortRatio("holdings acme", "acme holdings"))
	assert.Less(t, TokenSortRatio("acme holdings", "globex widgets"), 50)
}

func TestTokenSetRatio(t *testing.T) {
	t.Parallel()

	// Shared core tokens dominate, extra words are forgiven.
	assert.Equal(t, 100, TokenSetRatio("acme energy", "acme energy of norway"))
	assert.Equal(t, 100, TokenSetRatio("energy acme", "acme energy"))
	assert.Less(t, TokenSetRatio("acme", "globex"), 40)
}

func TestMatchScoreTakesBest(t *testing.T) {
	t.Parallel()

	a, b := "acme energy", "acme energy of norway"
	best := MatchScore(a, b)
	assert.GreaterOrEqual(t, best, TokenSortRatio(a, b))
	assert.GreaterOrEqual(t, best, TokenSetRatio(a, b))
	assert.GreaterOrEqual(t, best, PartialRatio(a, b))
	assert.Equal(t, 100, best)
}
