package dataset

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sanctionsRows() [][]string {
	return [][]string{
		{"Downloaded on 2024-01-01", "", "", ""},
		{"", "", "", ""},
		{"Firm Name", "Country", "Grounds", "From Date"},
		{"Acme Construction Ltd", "Kenya", "Fraudulent practices", "2021-03-15"},
		{"", "ignored", "", ""},
		{"Globex Engineering", "", "", "not a date"},
	}
}

func TestMapSanctions(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	records, err := MapSanctions(sanctionsRows(), now)
	require.NoError(t, err)
	require.Len(t, records, 2)

	acme := records[0]
	assert.Equal(t, "Acme Construction Ltd", acme.CompanyGroup)
	assert.Equal(t, "Kenya", acme.CompanyCountry)
	assert.Equal(t, "Fraudulent practices", acme.Motivation)
	assert.Equal(t, SanctionsMainCategory, acme.MainCategory)
	assert.Equal(t, SanctionsSubCategory, acme.SubCategory)
	assert.Equal(t, SanctionsAuthority, acme.ExcludedBy)
	assert.Equal(t, SanctionsInvestorCountry, acme.InvestorCountry)
	assert.Equal(t, SanctionsSource, acme.Source)
	assert.Equal(t, ScopeCompany, acme.ScopeNormalized)
	assert.Equal(t, "2021", acme.YearRaw)

	wantSerial := ToExcelSerial(time.Date(2021, time.March, 15, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, strconv.Itoa(wantSerial), acme.ExclusionDate)
}

func TestMapSanctions_MissingOptionalFields(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	records, err := MapSanctions(sanctionsRows(), now)
	require.NoError(t, err)

	globex := records[1]
	assert.Equal(t, "Various", globex.CompanyCountry)
	assert.Equal(t, "Unspecified", globex.Motivation)
	// Unparseable from-date falls back to the load time.
	assert.Equal(t, "2026", globex.YearRaw)
	assert.Equal(t, strconv.Itoa(ToExcelSerial(now)), globex.ExclusionDate)
}

func TestMapSanctions_NoHeader(t *testing.T) {
	t.Parallel()

	_, err := MapSanctions([][]string{{"just", "noise"}}, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "header row not found")
}

func TestMapSanctions_NoEntities(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Firm Name", "Country", "Grounds", "From Date"},
		{"", "", "", ""},
	}
	_, err := MapSanctions(rows, time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no valid sanctioned entities")
}

func TestMapSanctions_GroundsOnlyColumns(t *testing.T) {
	t.Parallel()

	rows := [][]string{
		{"Firm Name"},
		{"Acme Construction"},
	}
	records, err := MapSanctions(rows, time.Now())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, sanctionsDefaultMotivation, records[0].Motivation)
	assert.Equal(t, sanctionsDefaultFurtherSub, records[0].FurtherSubCategory)
	assert.Equal(t, "Various", records[0].CompanyCountry)
}
