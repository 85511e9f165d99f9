package scorer

import (
	"fmt"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
)

// Risk tier labels.
const (
	LevelLow    = "Low Risk"
	LevelMedium = "Medium Risk"
	LevelHigh   = "High Risk"
)

// Factors carry the metrics behind a risk assessment.
type Factors struct {
	Reason                 string  `json:"reason"`
	UniqueInvestors        int     `json:"unique_investors"`
	UniqueCountries        int     `json:"unique_countries"`
	TotalExclusions        int     `json:"total_exclusions"`
	RecentExclusions       int     `json:"recent_exclusions"`
	BaseScore              float64 `json:"base_score"`
	InvestorMultiplier     float64 `json:"investor_multiplier"`
	GeographicMultiplier   float64 `json:"geographic_multiplier"`
	ConsensusAdjustedScore float64 `json:"consensus_adjusted_score"`
	ConfidenceScore        float64 `json:"confidence_score"`
	Percentile             float64 `json:"percentile"`
	Status                 string  `json:"status"`
}

// Assess tiers a company's exclusion records against calibrated
// thresholds. Boundary scores land in the higher tier; several
// qualitative conditions force High Risk regardless of score.
func (w Weights) Assess(records []dataset.Record, th Thresholds) (string, Factors) {
	if len(records) == 0 {
		return LevelLow, Factors{
			Reason:          "Company not found in exclusion database - No investor exclusions identified",
			ConfidenceScore: 1.0,
			Status:          "Not Excluded",
		}
	}

	base := 0.0
	recent := 0
	for i := range records {
		base += w.RowScore(&records[i])
		if records[i].YearsAgo <= 2 {
			recent++
		}
	}

	investorMult, geoMult := ConsensusMultipliers(records)
	score := base * investorMult * geoMult

	investors := countDistinct(records, func(r *dataset.Record) string { return r.ExcludedBy })
	countries := countDistinct(records, func(r *dataset.Record) string { return r.InvestorCountry })

	var level, reason string
	switch {
	case score >= th.P80 || highRiskOverride(records, investors, countries):
		level = LevelHigh
		reason = fmt.Sprintf("Score: %.1f (>=80th percentile) or high-risk criteria met", score)
	case score >= th.P50:
		level = LevelMedium
		reason = fmt.Sprintf("Score: %.1f (50-80th percentile)", score)
	default:
		level = LevelLow
		reason = fmt.Sprintf("Score: %.1f (<50th percentile)", score)
	}

	return level, Factors{
		Reason:                 reason,
		UniqueInvestors:        investors,
		UniqueCountries:        countries,
		TotalExclusions:        len(records),
		RecentExclusions:       recent,
		BaseScore:              base,
		InvestorMultiplier:     investorMult,
		GeographicMultiplier:   geoMult,
		ConsensusAdjustedScore: score,
		ConfidenceScore:        ConfidenceScore(records),
		Percentile:             scorePercentile(score, th),
		Status:                 "Excluded",
	}
}

// highRiskOverride reports conditions that force the High tier: sector-
// wide climate exclusions, broad consensus, multiple severe categories,
// multi-year persistence, or forced/child labour confirmed by several
// authorities.
func highRiskOverride(records []dataset.Record, investors, countries int) bool {
	if investors >= 5 || countries >= 3 {
		return true
	}

	categories := make(map[string]struct{})
	seriousLabour := false
	minYears, maxYears := records[0].YearsAgo, records[0].YearsAgo

	for i := range records {
		r := &records[i]
		if r.ScopeNormalized == dataset.ScopeSector && r.CategoryCanonical == "climate" {
			return true
		}
		categories[r.CategoryCanonical] = struct{}{}
		if r.MotivationCanonical == "forced labour" || r.MotivationCanonical == "child labour" {
			seriousLabour = true
		}
		if r.YearsAgo < minYears {
			minYears = r.YearsAgo
		}
		if r.YearsAgo > maxYears {
			maxYears = r.YearsAgo
		}
	}

	if len(categories) >= 2 {
		return true
	}
	if maxYears-minYears >= 3 {
		return true
	}
	if seriousLabour && (investors >= 3 || countries >= 3) {
		return true
	}
	return false
}

// scorePercentile maps a score onto an approximate percentile within the
// calibrated distribution, clamped to [0, 99.9].
func scorePercentile(score float64, th Thresholds) float64 {
	switch {
	case score >= th.P80:
		extra := (score - th.P80) * 5
		if extra > 19.9 {
			extra = 19.9
		}
		return 80.0 + extra
	case score >= th.P50:
		span := th.P80 - th.P50
		if span <= 0 {
			return 50.0
		}
		return 50.0 + (score-th.P50)/span*30
	default:
		if th.P50 <= 0 {
			return 0
		}
		return score / th.P50 * 50
	}
}
