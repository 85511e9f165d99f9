package dataset

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Primary dataset column labels.
const (
	ColCompanyGroup         = "Company group"
	ColCompanyCountry       = "Company group country"
	ColSubsidiaryName       = "Standardized subsidiary name"
	ColSubsidiaryCountry    = "Standardized subsidiary country"
	ColMotivation           = "FI Motivation for exclusion"
	ColMainCategory         = "Main category"
	ColSubCategory          = "Sub-category"
	ColFurtherSubCategory   = "Further sub category"
	ColFinancialInstitution = "Financial institution"
	ColExcludedBy           = "Excluded by investor"
	ColInvestorCountry      = "Investor parent country"
	ColExclusionDate        = "Date of FI Exclusion list"
	ColSource               = "Source"
	ColWebsite              = "Website"
	ColSectorCompany        = "Sector/company exclusion"
	ColYear                 = "Year"
)

// RequiredColumns is the fixed header set the primary dataset must carry.
var RequiredColumns = []string{
	ColCompanyGroup, ColCompanyCountry,
	ColSubsidiaryName, ColSubsidiaryCountry,
	ColMotivation, ColMainCategory, ColSubCategory, ColFurtherSubCategory,
	ColFinancialInstitution, ColExcludedBy, ColInvestorCountry,
	ColExclusionDate, ColSource, ColWebsite, ColSectorCompany, ColYear,
}

// LoadPrimary maps raw spreadsheet rows into exclusion records. The first
// row must be the header; any missing required column is a hard load
// failure. Derived fields (normalized name, canonical labels, dates,
// scores) are filled later by the preprocessing pipeline.
func LoadPrimary(rows [][]string) ([]Record, error) {
	if len(rows) == 0 {
		return nil, eris.New("dataset: primary dataset is empty")
	}

	colIdx := mapColumnsNormalized(rows[0])
	var missing []string
	for _, col := range RequiredColumns {
		if _, ok := colIdx[normalizeCol(col)]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, eris.Errorf("dataset: primary dataset missing required columns: %s", strings.Join(missing, ", "))
	}

	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := Record{
			CompanyGroup:         getCol(row, colIdx, ColCompanyGroup),
			CompanyCountry:       getCol(row, colIdx, ColCompanyCountry),
			SubsidiaryName:       getCol(row, colIdx, ColSubsidiaryName),
			SubsidiaryCountry:    getCol(row, colIdx, ColSubsidiaryCountry),
			Motivation:           getCol(row, colIdx, ColMotivation),
			MainCategory:         getCol(row, colIdx, ColMainCategory),
			SubCategory:          getCol(row, colIdx, ColSubCategory),
			FurtherSubCategory:   getCol(row, colIdx, ColFurtherSubCategory),
			FinancialInstitution: getCol(row, colIdx, ColFinancialInstitution),
			ExcludedBy:           getCol(row, colIdx, ColExcludedBy),
			InvestorCountry:      getCol(row, colIdx, ColInvestorCountry),
			ExclusionDate:        getCol(row, colIdx, ColExclusionDate),
			Source:               getCol(row, colIdx, ColSource),
			Website:              getCol(row, colIdx, ColWebsite),
			ScopeNormalized:      NormalizeScope(getCol(row, colIdx, ColSectorCompany)),
			YearRaw:              getCol(row, colIdx, ColYear),
		}
		if rec.CompanyGroup == "" {
			continue
		}
		records = append(records, rec)
	}

	return records, nil
}

// NormalizeScope maps the sector/company flag to its canonical form.
// Anything that is not explicitly sector-wide counts as a company-level
// exclusion.
func NormalizeScope(raw string) string {
	if strings.ToLower(strings.TrimSpace(raw)) == ScopeSector {
		return ScopeSector
	}
	return ScopeCompany
}
