package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL:     "https://world.openfoodfacts.org/cgi/search.pl",
			Timeout:     10 * time.Second,
			FetchLimit:  40,
			RetryCount:  2,
			BackoffBase: 250 * time.Millisecond,
		},
		Matching: MatchingConfig{
			ScoreThreshold:     0.6,
			AutoMatchThreshold: 0.8,
			AmbiguityEpsilon:   0.05,
			TopN:               20,
			BrandBonus:         0.1,
			BrandPenalty:       0.1,
		},
		Batch: BatchConfig{Concurrency: 8, MaxRows: 500},
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 40, cfg.Catalog.FetchLimit)
	assert.Equal(t, 2, cfg.Catalog.RetryCount)
	assert.Equal(t, 0.6, cfg.Matching.ScoreThreshold)
	assert.Equal(t, 0.8, cfg.Matching.AutoMatchThreshold)
	assert.Equal(t, 20, cfg.Matching.TopN)
	assert.Equal(t, 8, cfg.Batch.Concurrency)
	assert.Equal(t, "&-'", cfg.Normalizer.KeepPunctuation)
	assert.NotEmpty(t, cfg.CORS.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_Rejections(t *testing.T) {
	cases := map[string]func(*Config){
		"threshold above 1":       func(c *Config) { c.Matching.ScoreThreshold = 1.2 },
		"auto below threshold":    func(c *Config) { c.Matching.AutoMatchThreshold = 0.5 },
		"auto equals threshold":   func(c *Config) { c.Matching.AutoMatchThreshold = c.Matching.ScoreThreshold },
		"top_n below minimum":     func(c *Config) { c.Matching.TopN = 3 },
		"top_n above maximum":     func(c *Config) { c.Matching.TopN = 50 },
		"negative brand penalty":  func(c *Config) { c.Matching.BrandPenalty = -0.1 },
		"zero concurrency":        func(c *Config) { c.Batch.Concurrency = 0 },
		"zero max rows":           func(c *Config) { c.Batch.MaxRows = 0 },
		"empty base url":          func(c *Config) { c.Catalog.BaseURL = "" },
		"zero fetch limit":        func(c *Config) { c.Catalog.FetchLimit = 0 },
		"negative retry count":    func(c *Config) { c.Catalog.RetryCount = -1 },
		"zero backoff":            func(c *Config) { c.Catalog.BackoffBase = 0 },
		"zero catalog timeout":    func(c *Config) { c.Catalog.Timeout = 0 },
		"negative ambiguity band": func(c *Config) { c.Matching.AmbiguityEpsilon = -0.01 },
	}
	for name, mutate := range cases {
		cfg := validConfig()
		mutate(cfg)
		assert.Error(t, cfg.Validate(), name)
	}
}
