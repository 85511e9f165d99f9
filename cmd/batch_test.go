package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-advisory/esg-screen/internal/engine"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "companies.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadCompanyCSV(t *testing.T) {
	path := writeTempCSV(t, "Company Name\nVedanta Resources\n  Bravo Foods  \n\n")

	names, err := readCompanyCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vedanta Resources", "Bravo Foods"}, names)
}

func TestReadCompanyCSV_NoHeader(t *testing.T) {
	path := writeTempCSV(t, "Vedanta Resources,extra\nCaspian Metals\n")

	names, err := readCompanyCSV(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Vedanta Resources", "Caspian Metals"}, names)
}

func TestReadCompanyCSV_Empty(t *testing.T) {
	path := writeTempCSV(t, "company\n")

	_, err := readCompanyCSV(path)
	require.Error(t, err)
}

func TestReadCompanyCSV_MissingFile(t *testing.T) {
	_, err := readCompanyCSV(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestProcessBatch(t *testing.T) {
	setTestConfig(t, "")
	eng := newTestEngine(t)

	names := []string{"Vedanta Resources", "Caspian Metals", "Unknown Company AS"}
	report, err := processBatch(context.Background(), eng, names, 0, 2)
	require.NoError(t, err)

	assert.NotEmpty(t, report.RunID)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Succeeded)
	assert.Equal(t, 0, report.Failed)
	require.Len(t, report.Entries, 3)

	// Entries keep the input order regardless of completion order.
	assert.Equal(t, "Vedanta Resources", report.Entries[0].Company)
	assert.Equal(t, scorer.LevelHigh, report.Entries[0].Result.RiskAssessment.Level)
	assert.Equal(t, scorer.LevelLow, report.Entries[2].Result.RiskAssessment.Level)

	assert.Equal(t, 1, report.ByLevel[scorer.LevelHigh])
	assert.Equal(t, report.Total, report.ByLevel[scorer.LevelHigh]+
		report.ByLevel[scorer.LevelMedium]+report.ByLevel[scorer.LevelLow])
}

func TestProcessBatch_AppliesLimit(t *testing.T) {
	setTestConfig(t, "")
	eng := newTestEngine(t)

	report, err := processBatch(context.Background(), eng,
		[]string{"Vedanta Resources", "Caspian Metals", "Bravo Foods"}, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Total)
	assert.Len(t, report.Entries, 2)
}

func TestProcessBatch_IndividualFailuresDoNotAbort(t *testing.T) {
	setTestConfig(t, "")

	// An engine with no datasets loaded fails every screening.
	eng := engine.New(cfg, nil, nil)

	report, err := processBatch(context.Background(), eng,
		[]string{"Vedanta Resources", "Caspian Metals"}, 0, 2)
	require.NoError(t, err)

	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	for _, entry := range report.Entries {
		assert.NotEmpty(t, entry.Error)
		assert.Nil(t, entry.Result)
	}
}

func TestWriteBatchReport_ToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	report := &BatchReport{RunID: "run-1", Total: 1, ByLevel: map[string]int{}}

	require.NoError(t, writeBatchReport(report, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)
}
