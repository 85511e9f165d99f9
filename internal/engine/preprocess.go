package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/resolve"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
)

// preprocess derives all computed record fields in place: normalized
// names, display dates, canonical labels over translated text, recency and
// the cached row score. It then builds the company index and calibrates
// thresholds.
func (e *Engine) preprocess(ctx context.Context, records []dataset.Record, now time.Time) {
	currentYear := now.Year()

	for i := range records {
		rec := &records[i]

		rec.CompanyGroupNormalized = resolve.NormalizeName(rec.CompanyGroup)
		rec.ExclusionDateDisplay = dataset.FormatDateForDisplay(rec.ExclusionDate)

		// Canonicalization runs over translated text; the record keeps
		// the original-language fields for reporting.
		motivation := e.translator.Translate(ctx, rec.Motivation)
		mainCategory := e.translator.Translate(ctx, rec.MainCategory)
		subCategory := e.translator.Translate(ctx, rec.SubCategory)

		rec.MotivationCanonical = dataset.CanonicalizeMotivation(
			motivation, mainCategory, subCategory, rec.Source)
		rec.CategoryCanonical = dataset.CanonicalizeCategory(mainCategory, motivation)

		rec.YearParsed = dataset.ParseYear(rec.YearRaw)
		if rec.YearParsed == 0 {
			rec.YearParsed = dataset.ParseYear(rec.ExclusionDate)
		}
		// Future-dated exclusions count as current rather than negative.
		if rec.YearParsed > 0 && rec.YearParsed < currentYear {
			rec.YearsAgo = currentYear - rec.YearParsed
		} else {
			rec.YearsAgo = 0
		}

		rec.RowScore = e.weights.RowScore(rec)
	}

	if err := e.translator.Flush(); err != nil {
		zap.L().Warn("translation cache flush failed", zap.Error(err))
	}

	e.records = records
	e.index = buildIndex(records)
	e.thresholds = scorer.Percentiles(records, e.companyRows())

	zap.L().Info("preprocessing complete",
		zap.Int("records", len(records)),
		zap.Int("companies", e.index.Len()),
		zap.Float64("p50", e.thresholds.P50),
		zap.Float64("p80", e.thresholds.P80),
	)
}

func buildIndex(records []dataset.Record) *resolve.Index {
	normalized := make([]string, len(records))
	for i := range records {
		normalized[i] = records[i].CompanyGroupNormalized
	}
	return resolve.NewIndex(normalized)
}

// companyRows exposes the index contents as a plain map for threshold
// calibration and cache persistence.
func (e *Engine) companyRows() map[string][]int {
	m := make(map[string][]int, e.index.Len())
	for _, name := range e.index.Names() {
		m[name] = e.index.Rows(name)
	}
	return m
}
