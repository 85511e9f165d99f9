package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "esg_cache.db", cfg.Cache.Path)
	assert.Equal(t, 365, cfg.Cache.MaxAgeDays)
	assert.Equal(t, 85, cfg.Matching.FuzzyThreshold)
	assert.Equal(t, 70, cfg.Matching.SuggestionThreshold)
	assert.Equal(t, 10, cfg.Matching.MaxSuggestions)
	assert.Equal(t, 5, cfg.Batch.MaxConcurrent)
	assert.True(t, cfg.Translate.Enabled)
	assert.Equal(t, 500, cfg.Translate.MaxCalls)
	assert.Equal(t, 5, cfg.Translate.MaxErrorStrikes)
	assert.Equal(t, "https://api-free.deepl.com", cfg.DeepL.BaseURL)
	assert.InDelta(t, 5.0, cfg.DeepL.RPS, 0.001)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
data:
  exclusions_path: /data/exclusions.xlsx
log:
  level: debug
  format: console
server:
  port: 9090
batch:
  max_concurrent: 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/data/exclusions.xlsx", cfg.Data.ExclusionsPath)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Batch.MaxConcurrent)
	// Defaults still apply for unset values
	assert.Equal(t, 85, cfg.Matching.FuzzyThreshold)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ESGSCREEN_LOG_LEVEL", "warn")
	t.Setenv("ESGSCREEN_DEEPL_KEY", "dl-key")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "dl-key", cfg.DeepL.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ESGSCREEN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Batch.MaxConcurrent = 5
	cfg.Matching.FuzzyThreshold = 85
	cfg.Matching.SuggestionThreshold = 70
	cfg.Cache.MaxAgeDays = 365
	cfg.Server.Port = 8080
	cfg.Data.ExclusionsPath = "/data/exclusions.xlsx"
	return cfg
}

func TestValidateAnalyze_AllPresent(t *testing.T) {
	cfg := validDefaults()
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateAnalyze_MissingDataset(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.ExclusionsPath = ""
	cfg.Data.ExclusionsURL = ""

	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exclusions_path or data.exclusions_url is required")
}

func TestValidateAnalyze_URLOnly(t *testing.T) {
	cfg := validDefaults()
	cfg.Data.ExclusionsPath = ""
	cfg.Data.ExclusionsURL = "https://example.com/exclusions.xlsx"

	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateServe_InvalidPort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateUnknownMode(t *testing.T) {
	cfg := validDefaults()
	err := cfg.Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Batch.MaxConcurrent = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "max_concurrent must be between 1 and 50")

	cfg.Batch.MaxConcurrent = 51
	err = cfg.Validate("analyze")
	assert.Error(t, err)

	cfg.Batch.MaxConcurrent = 50
	assert.NoError(t, cfg.Validate("analyze"))
}

func TestValidateThresholdBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Matching.FuzzyThreshold = 0
	err := cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "fuzzy_threshold must be between 1 and 100")

	cfg.Matching.FuzzyThreshold = 101
	err = cfg.Validate("analyze")
	assert.Error(t, err)

	cfg.Matching.FuzzyThreshold = 85
	cfg.Matching.SuggestionThreshold = 0
	err = cfg.Validate("analyze")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "suggestion_threshold")
}
