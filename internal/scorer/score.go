package scorer

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
)

// Thresholds are the dataset-calibrated score boundaries between risk
// tiers.
type Thresholds struct {
	P50 float64 `json:"p50"`
	P80 float64 `json:"p80"`
}

// DefaultThresholds apply when the dataset is too small to calibrate.
func DefaultThresholds() Thresholds {
	return Thresholds{P50: 1.0, P80: 2.0}
}

// RowScore computes the weighted score of a single exclusion record:
// category weight x motivation weight x scope multiplier x recency decay.
func (w Weights) RowScore(rec *dataset.Record) float64 {
	score := w.categoryWeight(rec.CategoryCanonical) *
		w.motivationWeight(rec.MotivationCanonical)

	if rec.ScopeNormalized == dataset.ScopeSector {
		score *= w.SectorScope
	}

	switch {
	case rec.YearsAgo <= 1:
		// full weight
	case rec.YearsAgo <= 2:
		score *= 0.9
	case rec.YearsAgo <= 5:
		score *= 0.8
	default:
		score *= 0.7
	}

	return score
}

// ConsensusMultipliers derive investor-breadth and geographic-breadth
// multipliers from how many distinct authorities and countries excluded
// the company.
func ConsensusMultipliers(records []dataset.Record) (investorMult, geoMult float64) {
	investors := countDistinct(records, func(r *dataset.Record) string { return r.ExcludedBy })
	countries := countDistinct(records, func(r *dataset.Record) string { return r.InvestorCountry })

	switch {
	case investors >= 20:
		investorMult = 1.30
	case investors >= 10:
		investorMult = 1.20
	case investors >= 5:
		investorMult = 1.10
	case investors >= 2:
		investorMult = 1.05
	default:
		investorMult = 1.0
	}

	switch {
	case countries >= 8:
		geoMult = 1.25
	case countries >= 5:
		geoMult = 1.15
	case countries >= 3:
		geoMult = 1.10
	case countries >= 2:
		geoMult = 1.05
	default:
		geoMult = 1.0
	}

	return investorMult, geoMult
}

// ConfidenceScore measures data completeness: the share of records with
// an unspecified motivation lowers confidence, floored at 0.5.
func ConfidenceScore(records []dataset.Record) float64 {
	if len(records) == 0 {
		return 1.0
	}

	unspecified := 0
	for i := range records {
		if records[i].MotivationCanonical == dataset.Unspecified {
			unspecified++
		}
	}

	pct := float64(unspecified) / float64(len(records)) * 100
	return 1 - math.Min(0.5, pct/200)
}

// Percentiles calibrates tier thresholds from the full dataset: each
// company's consensus-adjusted score forms the sample, and the 50th and
// 80th percentiles become the tier boundaries. Fewer than two companies
// fall back to DefaultThresholds.
func Percentiles(records []dataset.Record, byCompany map[string][]int) Thresholds {
	scores := make([]float64, 0, len(byCompany))

	names := make([]string, 0, len(byCompany))
	for name := range byCompany {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		indices := byCompany[name]
		company := make([]dataset.Record, 0, len(indices))
		base := 0.0
		for _, i := range indices {
			company = append(company, records[i])
			base += records[i].RowScore
		}
		investorMult, geoMult := ConsensusMultipliers(company)
		scores = append(scores, base*investorMult*geoMult)
	}

	if len(scores) < 2 {
		return DefaultThresholds()
	}

	sort.Float64s(scores)
	th := Thresholds{
		P50: percentile(scores, 50),
		P80: percentile(scores, 80),
	}

	zap.L().Info("calibrated risk thresholds",
		zap.Int("companies", len(scores)),
		zap.Float64("p50", th.P50),
		zap.Float64("p80", th.P80),
	)
	return th
}

// percentile computes the p-th percentile of sorted values with linear
// interpolation between ranks.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	rank := p / 100 * float64(len(sorted)-1)
	lower := int(math.Floor(rank))
	upper := int(math.Ceil(rank))
	if lower == upper {
		return sorted[lower]
	}
	frac := rank - float64(lower)
	return sorted[lower] + frac*(sorted[upper]-sorted[lower])
}

func countDistinct(records []dataset.Record, field func(*dataset.Record) string) int {
	seen := make(map[string]struct{}, len(records))
	for i := range records {
		if v := field(&records[i]); v != "" {
			seen[v] = struct{}{}
		}
	}
	return len(seen)
}
