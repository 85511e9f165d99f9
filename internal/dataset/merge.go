package dataset

import (
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Sentinel values filled into sanctions rows for fields the secondary
// dataset does not carry.
const (
	SanctionsAuthority       = "World Bank Group"
	SanctionsInstitution     = "World Bank"
	SanctionsMainCategory    = "Sanctions"
	SanctionsSubCategory     = "World Bank Sanctions"
	SanctionsInvestorCountry = "International"
	SanctionsSource          = "World Bank Sanctions and Debarments"
	SanctionsWebsite         = "https://www.worldbank.org/en/projects-operations/procurement/debarred-firms"

	sanctionsDefaultMotivation = "World Bank Sanctions"
	sanctionsDefaultFurtherSub = "Debarment/Sanctions List"
)

// Secondary dataset column labels.
const (
	colFirmName = "Firm Name"
	colCountry  = "Country"
	colGrounds  = "Grounds"
	colFromDate = "From Date"
)

// MapSanctions projects raw sanctions workbook rows into the exclusion
// schema. The header row is located heuristically (the workbook carries
// metadata rows above it); rows without a firm name are dropped; fields the
// sanctions list lacks are filled with fixed sentinels. From-dates become
// the same day-serial representation the primary dataset uses, so both
// datasets share one date path downstream.
func MapSanctions(rows [][]string, now time.Time) ([]Record, error) {
	headerIdx := -1
	for i, row := range rows {
		for _, cell := range row {
			if strings.Contains(cell, colFirmName) {
				headerIdx = i
				break
			}
		}
		if headerIdx >= 0 {
			break
		}
	}
	if headerIdx < 0 {
		return nil, eris.New("dataset: sanctions header row not found")
	}

	colIdx := mapColumnsNormalized(rows[headerIdx])
	hasCountry := has(colIdx, colCountry)
	hasGrounds := has(colIdx, colGrounds)
	hasFromDate := has(colIdx, colFromDate)

	var records []Record
	for _, row := range rows[headerIdx+1:] {
		firm := getCol(row, colIdx, colFirmName)
		if firm == "" {
			continue
		}

		country := "Various"
		if hasCountry {
			if v := getCol(row, colIdx, colCountry); v != "" {
				country = v
			}
		}

		motivation := sanctionsDefaultMotivation
		furtherSub := sanctionsDefaultFurtherSub
		if hasGrounds {
			grounds := getCol(row, colIdx, colGrounds)
			if grounds == "" {
				grounds = "Unspecified"
			}
			motivation = grounds
			furtherSub = grounds
		}

		date, year := now, now.Year()
		if hasFromDate {
			if parsed, ok := ParseFlexibleDate(getCol(row, colIdx, colFromDate)); ok {
				date, year = parsed, parsed.Year()
			}
		}

		records = append(records, Record{
			CompanyGroup:         firm,
			SubsidiaryName:       firm,
			CompanyCountry:       country,
			SubsidiaryCountry:    country,
			Motivation:           motivation,
			FurtherSubCategory:   furtherSub,
			MainCategory:         SanctionsMainCategory,
			SubCategory:          SanctionsSubCategory,
			FinancialInstitution: SanctionsInstitution,
			ExcludedBy:           SanctionsAuthority,
			InvestorCountry:      SanctionsInvestorCountry,
			ExclusionDate:        strconv.Itoa(ToExcelSerial(date)),
			YearRaw:              strconv.Itoa(year),
			Source:               SanctionsSource,
			Website:              SanctionsWebsite,
			ScopeNormalized:      ScopeCompany,
		})
	}

	if len(records) == 0 {
		return nil, eris.New("dataset: no valid sanctioned entities found")
	}

	zap.L().Info("mapped sanctions dataset into exclusion schema",
		zap.Int("entities", len(records)),
	)
	return records, nil
}

func has(colIdx map[string]int, name string) bool {
	_, ok := colIdx[normalizeCol(name)]
	return ok
}
