package dataset

// Scope values for ScopeNormalized.
const (
	ScopeSector  = "sector"
	ScopeCompany = "company"
)

// Record is one row of the merged exclusion dataset: one authority's
// exclusion or sanction of one company. Records are built once during
// preprocessing and immutable afterward.
type Record struct {
	CompanyGroup           string `json:"company_group"`
	CompanyGroupNormalized string `json:"company_group_normalized"`
	CompanyCountry         string `json:"company_country"`
	SubsidiaryName         string `json:"subsidiary_name"`
	SubsidiaryCountry      string `json:"subsidiary_country"`
	Motivation             string `json:"motivation"`
	MotivationCanonical    string `json:"motivation_canonical"`
	MainCategory           string `json:"main_category"`
	SubCategory            string `json:"sub_category"`
	FurtherSubCategory     string `json:"further_sub_category"`
	CategoryCanonical      string `json:"category_canonical"`
	FinancialInstitution   string `json:"financial_institution"`
	ExcludedBy             string `json:"excluded_by"`
	InvestorCountry        string `json:"investor_country"`
	ExclusionDate          string `json:"exclusion_date"`
	ExclusionDateDisplay   string `json:"exclusion_date_display"`
	YearRaw                string `json:"year_raw"`
	YearParsed             int    `json:"year_parsed"`
	YearsAgo               int    `json:"years_ago"`
	ScopeNormalized        string `json:"scope_normalized"`
	Source                 string `json:"source"`
	Website                string `json:"website"`

	// RowScore is the per-record weighted score computed during
	// preprocessing, cached so threshold calibration and query scoring
	// share one value.
	RowScore float64 `json:"row_score"`
}
