package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Catalog    CatalogConfig
	Matching   MatchingConfig
	Batch      BatchConfig
	Brands     BrandsConfig
	Normalizer NormalizerConfig
	CORS       CORSConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// CatalogConfig holds candidate provider settings: the upstream search
// endpoint, the per-call deadline, and the retry policy applied to
// timed-out lookups.
type CatalogConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	FetchLimit  int           `mapstructure:"fetch_limit"`
	RetryCount  int           `mapstructure:"retry_count"`
	BackoffBase time.Duration `mapstructure:"backoff_base"`
}

// MatchingConfig holds scorer and selector tuning knobs.
type MatchingConfig struct {
	ScoreThreshold     float64 `mapstructure:"score_threshold"`
	AutoMatchThreshold float64 `mapstructure:"auto_match_threshold"`
	AmbiguityEpsilon   float64 `mapstructure:"ambiguity_epsilon"`
	TopN               int     `mapstructure:"top_n"`
	BrandBonus         float64 `mapstructure:"brand_bonus"`
	BrandPenalty       float64 `mapstructure:"brand_penalty"`
}

// BatchConfig holds batch orchestrator settings.
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
	MaxRows     int `mapstructure:"max_rows"`
}

// BrandsConfig holds the brand vocabulary source. VocabFile may be a
// .txt, .csv, or .xlsx file; empty means an empty vocabulary.
type BrandsConfig struct {
	VocabFile string `mapstructure:"vocab_file"`
}

// NormalizerConfig holds canonicalization settings. KeepPunctuation
// lists the punctuation runes preserved inside product names; all other
// non-alphanumeric runes become spaces.
type NormalizerConfig struct {
	KeepPunctuation string `mapstructure:"keep_punctuation"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TopN bounds honored by the selector regardless of configuration.
const (
	MinTopN = 5
	MaxTopN = 30
)

// Load reads configuration from environment variables with the FOODREC_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FOODREC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.environment", "development")

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://world.openfoodfacts.org/cgi/search.pl")
	v.SetDefault("catalog.timeout", "10s")
	v.SetDefault("catalog.fetch_limit", 40)
	v.SetDefault("catalog.retry_count", 2)
	v.SetDefault("catalog.backoff_base", "250ms")

	// Matching defaults
	v.SetDefault("matching.score_threshold", 0.6)
	v.SetDefault("matching.auto_match_threshold", 0.8)
	v.SetDefault("matching.ambiguity_epsilon", 0.05)
	v.SetDefault("matching.top_n", 20)
	v.SetDefault("matching.brand_bonus", 0.1)
	v.SetDefault("matching.brand_penalty", 0.1)

	// Batch defaults
	v.SetDefault("batch.concurrency", 8)
	v.SetDefault("batch.max_rows", 500)

	// Brands defaults
	v.SetDefault("brands.vocab_file", "")

	// Normalizer defaults: keep the punctuation that appears inside
	// real product names (ampersand, hyphen, apostrophe)
	v.SetDefault("normalizer.keep_punctuation", "&-'")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                   "FOODREC_SERVER_PORT",
		"server.read_timeout":           "FOODREC_SERVER_READ_TIMEOUT",
		"server.write_timeout":          "FOODREC_SERVER_WRITE_TIMEOUT",
		"server.environment":            "FOODREC_SERVER_ENVIRONMENT",
		"catalog.base_url":              "FOODREC_CATALOG_BASE_URL",
		"catalog.timeout":               "FOODREC_CATALOG_TIMEOUT",
		"catalog.fetch_limit":           "FOODREC_CATALOG_FETCH_LIMIT",
		"catalog.retry_count":           "FOODREC_CATALOG_RETRY_COUNT",
		"catalog.backoff_base":          "FOODREC_CATALOG_BACKOFF_BASE",
		"matching.score_threshold":      "FOODREC_MATCHING_SCORE_THRESHOLD",
		"matching.auto_match_threshold": "FOODREC_MATCHING_AUTO_MATCH_THRESHOLD",
		"matching.ambiguity_epsilon":    "FOODREC_MATCHING_AMBIGUITY_EPSILON",
		"matching.top_n":                "FOODREC_MATCHING_TOP_N",
		"matching.brand_bonus":          "FOODREC_MATCHING_BRAND_BONUS",
		"matching.brand_penalty":        "FOODREC_MATCHING_BRAND_PENALTY",
		"batch.concurrency":             "FOODREC_BATCH_CONCURRENCY",
		"batch.max_rows":                "FOODREC_BATCH_MAX_ROWS",
		"brands.vocab_file":             "FOODREC_BRANDS_VOCAB_FILE",
		"normalizer.keep_punctuation":   "FOODREC_NORMALIZER_KEEP_PUNCTUATION",
		"cors.allowed_origins":          "FOODREC_CORS_ALLOWED_ORIGINS",
		"log.level":                     "FOODREC_LOG_LEVEL",
		"log.format":                    "FOODREC_LOG_FORMAT",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// CORS origins arrive as a comma-separated string from env
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
		for i := range cfg.CORS.AllowedOrigins {
			cfg.CORS.AllowedOrigins[i] = strings.TrimSpace(cfg.CORS.AllowedOrigins[i])
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field invariants. A malformed configuration is
// fatal before any batch is accepted.
func (c *Config) Validate() error {
	m := c.Matching
	if m.ScoreThreshold < 0 || m.ScoreThreshold > 1 {
		return fmt.Errorf("matching.score_threshold must be in [0,1], got %v", m.ScoreThreshold)
	}
	if m.AutoMatchThreshold < 0 || m.AutoMatchThreshold > 1 {
		return fmt.Errorf("matching.auto_match_threshold must be in [0,1], got %v", m.AutoMatchThreshold)
	}
	if m.AutoMatchThreshold <= m.ScoreThreshold {
		return fmt.Errorf("matching.auto_match_threshold (%v) must exceed matching.score_threshold (%v)",
			m.AutoMatchThreshold, m.ScoreThreshold)
	}
	if m.AmbiguityEpsilon < 0 || m.AmbiguityEpsilon > 1 {
		return fmt.Errorf("matching.ambiguity_epsilon must be in [0,1], got %v", m.AmbiguityEpsilon)
	}
	if m.TopN < MinTopN || m.TopN > MaxTopN {
		return fmt.Errorf("matching.top_n must be in [%d,%d], got %d", MinTopN, MaxTopN, m.TopN)
	}
	if m.BrandBonus < 0 || m.BrandPenalty < 0 {
		return fmt.Errorf("matching.brand_bonus and matching.brand_penalty must be non-negative")
	}
	if c.Batch.Concurrency < 1 {
		return fmt.Errorf("batch.concurrency must be >= 1, got %d", c.Batch.Concurrency)
	}
	if c.Batch.MaxRows < 1 {
		return fmt.Errorf("batch.max_rows must be >= 1, got %d", c.Batch.MaxRows)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url must not be empty")
	}
	if c.Catalog.FetchLimit < 1 {
		return fmt.Errorf("catalog.fetch_limit must be >= 1, got %d", c.Catalog.FetchLimit)
	}
	if c.Catalog.RetryCount < 0 {
		return fmt.Errorf("catalog.retry_count must be >= 0, got %d", c.Catalog.RetryCount)
	}
	if c.Catalog.BackoffBase <= 0 {
		return fmt.Errorf("catalog.backoff_base must be positive, got %v", c.Catalog.BackoffBase)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("catalog.timeout must be positive, got %v", c.Catalog.Timeout)
	}
	return nil
}
