package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalizeMotivation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		motivation string
		category   string
		want       string
	}{
		{"thermal coal", "coal-fired power generation", "", "thermal coal"},
		{"corruption", "bribery of officials", "", "corruption"},
		{"forced labour us spelling", "forced labor in supply chain", "", "forced labour"},
		{"severity order beats generic", "thermal coal and oil expansion", "", "thermal coal"},
		{"oil and gas", "petroleum extraction", "", "oil & gas"},
		{"from category field", "", "child labour concerns", "child labour"},
		{"norms based", "UN global compact breach", "", "norms-based"},
		{"unmatched keeps raw text", "unusual bespoke reason", "", "unusual bespoke reason"},
		{"empty is unspecified", "", "", Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := CanonicalizeMotivation(tt.motivation, tt.category, "", "")
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalizeCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		category   string
		motivation string
		want       string
	}{
		{"climate", "Fossil fuels", "", "climate"},
		{"human rights", "Indigenous rights", "", "human rights"},
		{"governance", "", "money laundering", "governance"},
		{"business practices", "Controversial behaviour", "", "business practices"},
		{"cannabis", "Cannabis production", "", "cannabis"},
		{"order prefers climate", "coal and corruption", "", "climate"},
		{"unmatched is unspecified", "something else entirely", "", Unspecified},
		{"empty is unspecified", "", "", Unspecified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, CanonicalizeCategory(tt.category, tt.motivation))
		})
	}
}

func TestCanonicalAsymmetry(t *testing.T) {
	t.Parallel()

	// Motivation keeps informative raw text when uncategorized; category
	// does not.
	motivation := CanonicalizeMotivation("bespoke exclusion reason", "", "", "")
	category := CanonicalizeCategory("bespoke exclusion reason", "")
	assert.Equal(t, "bespoke exclusion reason", motivation)
	assert.Equal(t, Unspecified, category)
}
