package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/meridian-advisory/esg-screen/internal/config"
	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/engine"
)

// setTestConfig installs a config for command-level tests.
func setTestConfig(t *testing.T, authToken string) {
	t.Helper()

	cfg = &config.Config{
		Matching: config.MatchingConfig{
			FuzzyThreshold:      85,
			SuggestionThreshold: 70,
			MaxSuggestions:      10,
		},
		Cache:  config.CacheConfig{Disabled: true},
		Batch:  config.BatchConfig{MaxConcurrent: 2},
		Server: config.ServerConfig{Port: 8080, AuthToken: authToken},
	}
}

func buildTestWorkbook(t *testing.T, rows [][]string) []byte {
	t.Helper()

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Sheet1")
	require.NoError(t, err)
	for _, row := range rows {
		r := sheet.AddRow()
		for _, v := range row {
			r.AddCell().Value = v
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// newTestEngine loads a small two-dataset engine for command tests.
func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()

	header := []string{
		dataset.ColCompanyGroup, dataset.ColCompanyCountry,
		dataset.ColSubsidiaryName, dataset.ColSubsidiaryCountry,
		dataset.ColMotivation, dataset.ColMainCategory, dataset.ColSubCategory,
		dataset.ColFurtherSubCategory, dataset.ColFinancialInstitution,
		dataset.ColExcludedBy, dataset.ColInvestorCountry, dataset.ColExclusionDate,
		dataset.ColSource, dataset.ColWebsite, dataset.ColSectorCompany, dataset.ColYear,
	}
	primary := buildTestWorkbook(t, [][]string{
		header,
		{"Vedanta Resources", "United Kingdom", "", "", "Thermal coal", "Climate change", "", "", "KLP", "KLP", "Norway", "", "KLP exclusion list", "", "Sector", "2025"},
		{"Caspian Metals", "Kazakhstan", "", "", "Corruption", "Governance", "", "", "NBIM", "NBIM", "Norway", "", "NBIM exclusion list", "", "Company", "2026"},
		{"Bravo Foods", "Denmark", "", "", "Controversial behaviour", "Business practices", "", "", "PFZW", "PFZW", "Netherlands", "", "PFZW exclusion list", "", "Company", "2019"},
	})
	secondary := buildTestWorkbook(t, [][]string{
		{"Downloaded on 2026-08-01"},
		{"Firm Name", "Country"},
		{"Acme Construction Ltd.", "Cambodia"},
	})

	eng := engine.New(cfg, nil, nil)
	require.NoError(t, eng.Load(context.Background(), engine.LoadOptions{
		PrimaryData:   primary,
		SecondaryData: secondary,
	}))
	return eng
}
