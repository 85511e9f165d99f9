// Package engine wires the screening pipeline together: dataset loading,
// preprocessing, cache management and per-company risk analysis.
package engine

import (
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/cache"
	"github.com/meridian-advisory/esg-screen/internal/config"
	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/fetcher"
	"github.com/meridian-advisory/esg-screen/internal/resolve"
	"github.com/meridian-advisory/esg-screen/internal/sanctions"
	"github.com/meridian-advisory/esg-screen/internal/scorer"
	"github.com/meridian-advisory/esg-screen/internal/translate"
)

// Engine holds the loaded datasets and answers screening queries. After
// Load returns it is read-only and safe for concurrent use.
type Engine struct {
	cfg        *config.Config
	store      *cache.Store
	translator *translate.Manager
	downloader *fetcher.Downloader

	weights     scorer.Weights
	recommender scorer.Recommender

	records    []dataset.Record
	index      *resolve.Index
	thresholds scorer.Thresholds
	sanctions  *sanctions.Handler
	loaded     bool
}

// New builds an Engine. The cache store may be nil when caching is
// disabled; the translator may be nil for a fully offline run.
func New(cfg *config.Config, store *cache.Store, translator *translate.Manager) *Engine {
	if translator == nil {
		translator = translate.NewManager(translate.NewMemoryStore(), nil, translate.Options{
			MaxCalls:        cfg.Translate.MaxCalls,
			MaxErrorStrikes: cfg.Translate.MaxErrorStrikes,
		})
	}

	weights := scorer.DefaultWeights()
	if cfg.Scoring.WeightsPath != "" {
		w, err := scorer.LoadWeights(cfg.Scoring.WeightsPath)
		if err != nil {
			zap.L().Warn("weight overrides unusable, using defaults", zap.Error(err))
		} else {
			weights = w
		}
	}

	return &Engine{
		cfg:        cfg,
		store:      store,
		translator: translator,
		downloader: fetcher.NewDownloader(),
		weights:    weights,
		sanctions:  sanctions.NewFromList(nil),
	}
}

// Loaded reports whether datasets have been loaded.
func (e *Engine) Loaded() bool { return e.loaded }

// RecordCount returns the number of merged exclusion records.
func (e *Engine) RecordCount() int { return len(e.records) }

// CompanyCount returns the number of distinct normalized companies.
func (e *Engine) CompanyCount() int {
	if e.index == nil {
		return 0
	}
	return e.index.Len()
}

// Thresholds returns the calibrated tier thresholds.
func (e *Engine) Thresholds() scorer.Thresholds { return e.thresholds }

// SanctionsStats returns statistics on the sanctions list.
func (e *Engine) SanctionsStats() sanctions.Stats { return e.sanctions.Stats() }
