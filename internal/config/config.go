package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Data      DataConfig      `yaml:"data" mapstructure:"data"`
	Cache     CacheConfig     `yaml:"cache" mapstructure:"cache"`
	Matching  MatchingConfig  `yaml:"matching" mapstructure:"matching"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Translate TranslateConfig `yaml:"translate" mapstructure:"translate"`
	DeepL     DeepLConfig     `yaml:"deepl" mapstructure:"deepl"`
	Batch     BatchConfig     `yaml:"batch" mapstructure:"batch"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// DataConfig locates the exclusion and sanctions datasets.
type DataConfig struct {
	ExclusionsPath string `yaml:"exclusions_path" mapstructure:"exclusions_path"`
	ExclusionsURL  string `yaml:"exclusions_url" mapstructure:"exclusions_url"`
	SanctionsPath  string `yaml:"sanctions_path" mapstructure:"sanctions_path"`
	SanctionsURL   string `yaml:"sanctions_url" mapstructure:"sanctions_url"`
	SheetName      string `yaml:"sheet_name" mapstructure:"sheet_name"`
}

// CacheConfig configures the persistent preprocessing cache.
type CacheConfig struct {
	Path       string `yaml:"path" mapstructure:"path"`
	MaxAgeDays int    `yaml:"max_age_days" mapstructure:"max_age_days"`
	Disabled   bool   `yaml:"disabled" mapstructure:"disabled"`
}

// MatchingConfig configures the name matcher.
type MatchingConfig struct {
	FuzzyThreshold      int `yaml:"fuzzy_threshold" mapstructure:"fuzzy_threshold"`
	SuggestionThreshold int `yaml:"suggestion_threshold" mapstructure:"suggestion_threshold"`
	MaxSuggestions      int `yaml:"max_suggestions" mapstructure:"max_suggestions"`
}

// ScoringConfig configures risk scoring.
type ScoringConfig struct {
	WeightsPath string `yaml:"weights_path" mapstructure:"weights_path"`
}

// TranslateConfig configures the translation pipeline.
type TranslateConfig struct {
	Enabled         bool `yaml:"enabled" mapstructure:"enabled"`
	MaxCalls        int  `yaml:"max_calls" mapstructure:"max_calls"`
	MaxErrorStrikes int  `yaml:"max_error_strikes" mapstructure:"max_error_strikes"`
}

// DeepLConfig holds DeepL API settings.
type DeepLConfig struct {
	Key     string  `yaml:"key" mapstructure:"key"`
	BaseURL string  `yaml:"base_url" mapstructure:"base_url"`
	RPS     float64 `yaml:"rps" mapstructure:"rps"`
}

// BatchConfig configures batch analysis.
type BatchConfig struct {
	MaxConcurrent int `yaml:"max_concurrent" mapstructure:"max_concurrent"`
}

// ServerConfig configures the API server.
type ServerConfig struct {
	Port      int    `yaml:"port" mapstructure:"port"`
	AuthToken string `yaml:"auth_token" mapstructure:"auth_token"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ESGSCREEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("cache.path", "esg_cache.db")
	v.SetDefault("cache.max_age_days", 365)
	v.SetDefault("matching.fuzzy_threshold", 85)
	v.SetDefault("matching.suggestion_threshold", 70)
	v.SetDefault("matching.max_suggestions", 10)
	v.SetDefault("batch.max_concurrent", 5)
	v.SetDefault("translate.enabled", true)
	v.SetDefault("translate.max_calls", 500)
	v.SetDefault("translate.max_error_strikes", 5)
	v.SetDefault("deepl.base_url", "https://api-free.deepl.com")
	v.SetDefault("deepl.rps", 5.0)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
