package fetcher

import (
	"fmt"
	"time"

	pkgconfig "news-aggregator/pkg/config"
)

// Config controls enrichment fetches.
type Config struct {
	// Threshold is the content length in runes below which the article page
	// is fetched. Truncated provider content is always fetched.
	Threshold      int
	Timeout        time.Duration
	MaxBodySize    int64
	MaxRedirects   int
	DenyPrivateIPs bool
	UserAgent      string
}

func DefaultConfig() Config {
	return Config{
		Threshold:      1500,
		Timeout:        10 * time.Second,
		MaxBodySize:    10 * 1024 * 1024, // 10MB
		MaxRedirects:   5,
		DenyPrivateIPs: true,
		UserAgent:      "news-aggregator/1.0",
	}
}

// Validate checks ranges that would make fetching unsafe or useless.
func (c *Config) Validate() error {
	if c.Threshold < 0 {
		return fmt.Errorf("threshold must be non-negative, got %d", c.Threshold)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %v", c.Timeout)
	}
	minBody, maxBody := int64(1024), int64(100*1024*1024)
	if c.MaxBodySize < minBody || c.MaxBodySize > maxBody {
		return fmt.Errorf("max body size must be between %d and %d bytes, got %d", minBody, maxBody, c.MaxBodySize)
	}
	if c.MaxRedirects < 0 || c.MaxRedirects > 10 {
		return fmt.Errorf("max redirects must be between 0 and 10, got %d", c.MaxRedirects)
	}
	return nil
}

// ConfigFromEnv overlays CONTENT_FETCH_* variables on the defaults.
//
//   - CONTENT_FETCH_THRESHOLD (default 1500)
//   - CONTENT_FETCH_TIMEOUT (default 10s)
//   - CONTENT_FETCH_MAX_BODY_SIZE (bytes, default 10MB)
//   - CONTENT_FETCH_MAX_REDIRECTS (default 5)
//   - CONTENT_FETCH_DENY_PRIVATE_IPS (default true)
func ConfigFromEnv(userAgent string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Threshold = pkgconfig.GetEnvInt("CONTENT_FETCH_THRESHOLD", cfg.Threshold)
	cfg.Timeout = pkgconfig.GetEnvDuration("CONTENT_FETCH_TIMEOUT", cfg.Timeout)
	cfg.MaxBodySize = int64(pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_BODY_SIZE", int(cfg.MaxBodySize)))
	cfg.MaxRedirects = pkgconfig.GetEnvInt("CONTENT_FETCH_MAX_REDIRECTS", cfg.MaxRedirects)
	cfg.DenyPrivateIPs = pkgconfig.GetEnvBool("CONTENT_FETCH_DENY_PRIVATE_IPS", cfg.DenyPrivateIPs)
	if userAgent != "" {
		cfg.UserAgent = userAgent
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
