// Package pagination provides offset-based paging for list endpoints:
// query parsing, offset math and the response envelope.
package pagination

import (
	pkgconfig "news-aggregator/pkg/config"
)

// Config holds pagination configuration settings.
type Config struct {
	DefaultPage    int // typically 1
	DefaultPerPage int // typically 20
	MaxPerPage     int // typically 100
}

// DefaultConfig returns page=1, per_page=20, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultPage:    1,
		DefaultPerPage: 20,
		MaxPerPage:     100,
	}
}

// LoadFromEnv loads pagination config from environment variables.
// Supported environment variables:
//   - PAGINATION_DEFAULT_PER_PAGE: Default items per page
//   - PAGINATION_MAX_PER_PAGE: Maximum items per page
//
// Unset or non-positive values keep the defaults.
func LoadFromEnv() Config {
	cfg := DefaultConfig()
	if v := pkgconfig.GetEnvInt("PAGINATION_DEFAULT_PER_PAGE", cfg.DefaultPerPage); v > 0 {
		cfg.DefaultPerPage = v
	}
	if v := pkgconfig.GetEnvInt("PAGINATION_MAX_PER_PAGE", cfg.MaxPerPage); v > 0 {
		cfg.MaxPerPage = v
	}
	if cfg.DefaultPerPage > cfg.MaxPerPage {
		cfg.DefaultPerPage = cfg.MaxPerPage
	}
	return cfg
}
