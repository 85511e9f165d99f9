package config

import (
	"strings"

	"github.com/rotisserie/eris"
)

// Validate checks the configuration for the given run mode. Modes:
// "analyze" (single or batch analysis), "serve" (API server).
func (c *Config) Validate(mode string) error {
	var errs []string

	if c.Batch.MaxConcurrent < 1 || c.Batch.MaxConcurrent > 50 {
		errs = append(errs, "batch.max_concurrent must be between 1 and 50")
	}
	if c.Matching.FuzzyThreshold < 1 || c.Matching.FuzzyThreshold > 100 {
		errs = append(errs, "matching.fuzzy_threshold must be between 1 and 100")
	}
	if c.Matching.SuggestionThreshold < 1 || c.Matching.SuggestionThreshold > 100 {
		errs = append(errs, "matching.suggestion_threshold must be between 1 and 100")
	}
	if c.Cache.MaxAgeDays < 1 {
		errs = append(errs, "cache.max_age_days must be >= 1")
	}

	switch mode {
	case "analyze":
		if c.Data.ExclusionsPath == "" && c.Data.ExclusionsURL == "" {
			errs = append(errs, "data.exclusions_path or data.exclusions_url is required")
		}
	case "serve":
		if c.Server.Port <= 0 {
			errs = append(errs, "server.port must be > 0")
		}
		if c.Data.ExclusionsPath == "" && c.Data.ExclusionsURL == "" {
			errs = append(errs, "data.exclusions_path or data.exclusions_url is required")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(errs) > 0 {
		return eris.Errorf("config: invalid configuration:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
