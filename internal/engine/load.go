package engine

import (
	"context"
	"os"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/cache"
	"github.com/meridian-advisory/esg-screen/internal/dataset"
	"github.com/meridian-advisory/esg-screen/internal/fetcher"
	"github.com/meridian-advisory/esg-screen/internal/sanctions"
)

// LoadOptions select the dataset sources. Unset fields fall back to the
// configured defaults. A primary source is required; the sanctions source
// is optional.
type LoadOptions struct {
	PrimaryPath string
	PrimaryURL  string
	PrimaryData []byte

	SecondaryPath string
	SecondaryURL  string
	SecondaryData []byte

	// ForceRebuild skips cache validation and rebuilds from source.
	ForceRebuild bool
}

// Load locates both datasets, restores a valid cache generation if one
// exists, and otherwise runs the full preprocessing pipeline and caches
// the result.
func (e *Engine) Load(ctx context.Context, opts LoadOptions) error {
	if opts.PrimaryPath == "" && opts.PrimaryURL == "" && len(opts.PrimaryData) == 0 {
		opts.PrimaryPath = e.cfg.Data.ExclusionsPath
		opts.PrimaryURL = e.cfg.Data.ExclusionsURL
	}
	if opts.SecondaryPath == "" && opts.SecondaryURL == "" && len(opts.SecondaryData) == 0 {
		opts.SecondaryPath = e.cfg.Data.SanctionsPath
		opts.SecondaryURL = e.cfg.Data.SanctionsURL
	}

	primaryData, primaryInfo, err := e.resolveSource(ctx, opts.PrimaryPath, opts.PrimaryURL, opts.PrimaryData)
	if err != nil {
		return eris.Wrap(err, "engine: resolve primary dataset")
	}

	var (
		secondaryData []byte
		secondaryInfo *cache.SourceInfo
	)
	if opts.SecondaryPath != "" || opts.SecondaryURL != "" || len(opts.SecondaryData) > 0 {
		secondaryData, secondaryInfo, err = e.resolveSource(ctx, opts.SecondaryPath, opts.SecondaryURL, opts.SecondaryData)
		if err != nil {
			// The sanctions dataset is optional; a missing one is not fatal.
			zap.L().Warn("sanctions dataset unavailable", zap.Error(err))
			secondaryData, secondaryInfo = nil, nil
		}
	}

	if e.cacheEnabled() && !opts.ForceRebuild &&
		e.store.IsValid(ctx, *primaryInfo, secondaryInfo, e.cacheMaxAge()) {
		arts, err := e.store.Load(ctx)
		if err == nil {
			e.hydrate(arts)
			return nil
		}
		zap.L().Warn("cache load failed, rebuilding", zap.Error(err))
	}

	return e.rebuild(ctx, primaryData, secondaryData, primaryInfo, secondaryInfo)
}

// resolveSource reads one dataset source into memory with a fingerprint
// for cache validation. Precedence: explicit bytes, then path, then URL.
func (e *Engine) resolveSource(ctx context.Context, path, url string, data []byte) ([]byte, *cache.SourceInfo, error) {
	switch {
	case len(data) > 0:
		info := cache.BytesInfo(data)
		return data, &info, nil
	case path != "":
		info, err := cache.FileInfo(path)
		if err != nil {
			return nil, nil, err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, eris.Wrap(err, "engine: read dataset file")
		}
		return raw, &info, nil
	case url != "":
		raw, err := e.downloader.Download(ctx, url)
		if err != nil {
			return nil, nil, err
		}
		info := cache.BytesInfo(raw)
		return raw, &info, nil
	default:
		return nil, nil, eris.New("engine: no dataset source configured")
	}
}

// rebuild runs the full preprocessing pipeline from raw spreadsheet bytes
// and persists the resulting cache generation.
func (e *Engine) rebuild(ctx context.Context, primaryData, secondaryData []byte, primaryInfo, secondaryInfo *cache.SourceInfo) error {
	rows, err := fetcher.ReadXLSXBytes(primaryData, fetcher.XLSXOptions{SheetName: e.cfg.Data.SheetName})
	if err != nil {
		return eris.Wrap(err, "engine: read primary dataset")
	}

	records, err := dataset.LoadPrimary(rows)
	if err != nil {
		return err
	}
	zap.L().Info("loaded exclusion dataset", zap.Int("records", len(records)))

	e.sanctions = sanctions.NewFromList(nil)
	if secondaryData != nil {
		sanctionRows, err := fetcher.ReadXLSXBytes(secondaryData, fetcher.XLSXOptions{})
		if err != nil {
			zap.L().Warn("sanctions dataset unreadable, continuing without it", zap.Error(err))
			secondaryInfo = nil
		} else {
			mapped, err := dataset.MapSanctions(sanctionRows, time.Now())
			if err != nil {
				zap.L().Warn("sanctions dataset unusable, continuing without it", zap.Error(err))
				secondaryInfo = nil
			} else {
				e.sanctions = sanctions.NewFromRows(sanctionRows)
				records = append(records, mapped...)
			}
		}
	}

	e.preprocess(ctx, records, time.Now())
	e.loaded = true

	if e.cacheEnabled() {
		arts := &cache.Artifacts{
			Records:      e.records,
			CompanyIndex: e.companyRows(),
			Thresholds:   e.thresholds,
			Metadata: cache.Metadata{
				Primary:   *primaryInfo,
				Secondary: secondaryInfo,
			},
		}
		if e.sanctions.Stats().TotalEntities > 0 {
			snap := e.sanctions.Snapshot(time.Now().Unix())
			arts.Sanctions = &snap
		}
		if err := e.store.Save(ctx, arts); err != nil {
			zap.L().Warn("cache save failed", zap.Error(err))
		}
	}
	return nil
}

// hydrate restores engine state from a cache generation.
func (e *Engine) hydrate(arts *cache.Artifacts) {
	e.records = arts.Records
	e.index = buildIndex(arts.Records)
	e.thresholds = arts.Thresholds
	if arts.Sanctions != nil {
		e.sanctions = sanctions.NewFromList(arts.Sanctions.Entities)
	} else {
		e.sanctions = sanctions.NewFromList(nil)
	}
	e.loaded = true

	zap.L().Info("restored engine state from cache",
		zap.Int("records", len(e.records)),
		zap.Int("companies", e.index.Len()),
	)
}

// CacheInfo reports the cache state.
func (e *Engine) CacheInfo(ctx context.Context) (cache.Info, error) {
	if e.store == nil {
		return cache.Info{}, eris.New("engine: cache is disabled")
	}
	return e.store.Info(ctx)
}

// ClearCache removes all cached artifacts.
func (e *Engine) ClearCache(ctx context.Context) error {
	if e.store == nil {
		return eris.New("engine: cache is disabled")
	}
	return e.store.Clear(ctx)
}

func (e *Engine) cacheEnabled() bool {
	return e.store != nil && !e.cfg.Cache.Disabled
}

func (e *Engine) cacheMaxAge() time.Duration {
	days := e.cfg.Cache.MaxAgeDays
	if days <= 0 {
		days = 365
	}
	return time.Duration(days) * 24 * time.Hour
}
