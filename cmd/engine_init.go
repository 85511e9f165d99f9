package main

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/meridian-advisory/esg-screen/internal/cache"
	"github.com/meridian-advisory/esg-screen/internal/engine"
	"github.com/meridian-advisory/esg-screen/internal/translate"
	"github.com/meridian-advisory/esg-screen/pkg/deepl"
)

// Dataset source flags shared by the commands that load data.
var (
	flagData         string
	flagDataURL      string
	flagSanctions    string
	flagSanctionsURL string
	flagRefresh      bool
)

func registerDataFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagData, "data", "", "path to the exclusion dataset (xlsx)")
	cmd.Flags().StringVar(&flagDataURL, "data-url", "", "URL of the exclusion dataset")
	cmd.Flags().StringVar(&flagSanctions, "sanctions", "", "path to the World Bank sanctions dataset (xlsx)")
	cmd.Flags().StringVar(&flagSanctionsURL, "sanctions-url", "", "URL of the World Bank sanctions dataset")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "ignore cached artifacts and rebuild from source")
}

// screenEnv holds the initialized engine and the resources behind it.
type screenEnv struct {
	Engine *engine.Engine
	Store  *cache.Store
}

// Close releases resources held by the environment.
func (se *screenEnv) Close() {
	if se.Store != nil {
		_ = se.Store.Close()
	}
}

// initEngine opens the cache, wires the translation layer and loads both
// datasets. Callers should defer env.Close().
func initEngine(ctx context.Context, mode string) (*screenEnv, error) {
	// Flags override the configured dataset sources.
	if flagData != "" {
		cfg.Data.ExclusionsPath = flagData
	}
	if flagDataURL != "" {
		cfg.Data.ExclusionsURL = flagDataURL
	}
	if flagSanctions != "" {
		cfg.Data.SanctionsPath = flagSanctions
	}
	if flagSanctionsURL != "" {
		cfg.Data.SanctionsURL = flagSanctionsURL
	}

	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	var store *cache.Store
	if !cfg.Cache.Disabled {
		st, err := cache.Open(cfg.Cache.Path)
		if err != nil {
			return nil, err
		}
		store = st
	}

	translator, err := initTranslator(ctx, store)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}

	eng := engine.New(cfg, store, translator)
	env := &screenEnv{Engine: eng, Store: store}

	if err := eng.Load(ctx, engine.LoadOptions{
		ForceRebuild: flagRefresh,
	}); err != nil {
		env.Close()
		return nil, err
	}

	return env, nil
}

// initTranslator builds the translation manager: persistent cache through
// the store when available, DeepL as the online backend when a key is
// configured.
func initTranslator(ctx context.Context, store *cache.Store) (*translate.Manager, error) {
	var ts translate.Store
	if store != nil {
		persisted, err := store.Translations(ctx)
		if err != nil {
			return nil, err
		}
		ts = persisted
	} else {
		ts = translate.NewMemoryStore()
	}

	var backend translate.Backend
	if cfg.Translate.Enabled && cfg.DeepL.Key != "" {
		backend = deepl.NewClient(cfg.DeepL.Key,
			deepl.WithBaseURL(cfg.DeepL.BaseURL),
			deepl.WithRateLimit(cfg.DeepL.RPS),
		)
		zap.L().Info("deepl translation enabled")
	} else {
		zap.L().Debug("online translation disabled, using seed dictionary only")
	}

	return translate.NewManager(ts, backend, translate.Options{
		MaxCalls:        cfg.Translate.MaxCalls,
		MaxErrorStrikes: cfg.Translate.MaxErrorStrikes,
	}), nil
}
