package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
)

func TestCategorize(t *testing.T) {
	t.Parallel()

	var re Recommender

	tests := []struct {
		name    string
		records []dataset.Record
		want    string
	}{
		{
			name: "no records",
			want: CategoryNoExclusion,
		},
		{
			name: "climate keywords",
			records: []dataset.Record{
				{Motivation: "Thermal coal mining", MainCategory: "Climate change"},
			},
			want: "Climate",
		},
		{
			name: "governance keywords",
			records: []dataset.Record{
				{Motivation: "Widespread corruption and bribery"},
			},
			want: "Governance",
		},
		{
			name: "majority wins",
			records: []dataset.Record{
				{Motivation: "fossil expansion"},
				{MainCategory: "coal power"},
				{Motivation: "corruption"},
			},
			want: "Climate",
		},
		{
			name: "tie goes to earlier category",
			records: []dataset.Record{
				{Motivation: "human rights", MainCategory: "coal"},
			},
			want: "Human Rights",
		},
		{
			name: "no keywords defaults to governance",
			records: []dataset.Record{
				{Motivation: "miscellaneous concerns"},
			},
			want: "Governance",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, re.Categorize(tt.records))
		})
	}
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	var re Recommender

	low := re.Recommend(LevelLow, "Climate")
	assert.Contains(t, low.BusinessContext, "No significant ESG concerns")
	assert.Empty(t, low.CategoryContext)

	medium := re.Recommend(LevelMedium, "Climate")
	assert.Contains(t, medium.BusinessContext, "Moderate ESG concerns")
	assert.Contains(t, medium.CategoryContext, "Paris-alignment")

	high := re.Recommend(LevelHigh, "Human Rights")
	assert.Contains(t, high.BusinessContext, "Significant ESG concerns")
	assert.Contains(t, high.CategoryContext, "ILO compliance")
	assert.NotEmpty(t, high.StrategicPathway)
	assert.NotEmpty(t, high.QuickWins)

	// Unknown level falls back to the low tier.
	fallback := re.Recommend("whatever", "Climate")
	assert.Equal(t, low.BusinessContext, fallback.BusinessContext)

	// Unknown category on an elevated tier just omits the context.
	assert.Empty(t, re.Recommend(LevelHigh, "No Exclusion Found").CategoryContext)
}

func TestDetailedPlaybook(t *testing.T) {
	t.Parallel()

	var re Recommender

	assert.Equal(t, "Proceed per standard controls", re.DetailedPlaybook(LevelLow).Title)
	assert.Equal(t, "Controlled engagement with enhanced oversight", re.DetailedPlaybook(LevelMedium).Title)

	high := re.DetailedPlaybook(LevelHigh)
	assert.Equal(t, "Strategic engagement with executive oversight", high.Title)
	assert.NotEmpty(t, high.AcceptableScopes)
	assert.NotEmpty(t, high.RestrictedScopes)
	assert.NotEmpty(t, high.ContractRequirements)

	assert.Equal(t, re.DetailedPlaybook(LevelLow).Title, re.DetailedPlaybook("bogus").Title)
}
