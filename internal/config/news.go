package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	pkgconfig "news-aggregator/pkg/config"
)

// ProviderConfig configures one outbound news provider client.
type ProviderConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"`
	PageSize   int           `yaml:"page_size"`
	Timeout    time.Duration `yaml:"timeout"`
	DailyQuota int           `yaml:"daily_quota"`
}

// ScrapingConfig bounds ingestion, post-processing and retention.
type ScrapingConfig struct {
	MaxArticles     int           `yaml:"max_articles"`
	RetentionDays   int           `yaml:"retention_days"`
	RunTimeout      time.Duration `yaml:"run_timeout"`
	ProcessTimeout  time.Duration `yaml:"process_timeout"`
	ScrapeAttempts  int           `yaml:"scrape_attempts"`
	ProcessAttempts int           `yaml:"process_attempts"`
	Workers         int           `yaml:"workers"`
	UserAgent       string        `yaml:"user_agent"`
	EnrichContent   bool          `yaml:"enrich_content"`
}

// AuthConfig configures API bearer tokens and registration rules.
type AuthConfig struct {
	JWTSecretEnv      string `yaml:"jwt_secret_env"`
	ExpiryHours       int    `yaml:"expiry_hours"`
	MinPasswordLength int    `yaml:"min_password_length"`
}

// NewsConfig is the explicit configuration handed to provider clients and
// the ingestion pipeline. Nothing downstream reads the environment.
type NewsConfig struct {
	NewsAPI  ProviderConfig `yaml:"newsapi"`
	Guardian ProviderConfig `yaml:"guardian"`
	RSS      ProviderConfig `yaml:"rss"`
	Scraping ScrapingConfig `yaml:"scraping"`
	Auth     AuthConfig     `yaml:"auth"`
}

// DefaultNewsConfig returns the built-in defaults.
func DefaultNewsConfig() *NewsConfig {
	return &NewsConfig{
		NewsAPI: ProviderConfig{
			BaseURL:    "https://newsapi.org/v2",
			PageSize:   100,
			Timeout:    30 * time.Second,
			DailyQuota: 1000,
		},
		Guardian: ProviderConfig{
			BaseURL:    "https://content.guardianapis.com",
			PageSize:   100,
			Timeout:    30 * time.Second,
			DailyQuota: 5000,
		},
		RSS: ProviderConfig{
			PageSize: 100,
			Timeout:  30 * time.Second,
		},
		Scraping: ScrapingConfig{
			MaxArticles:     100,
			RetentionDays:   30,
			RunTimeout:      5 * time.Minute,
			ProcessTimeout:  2 * time.Minute,
			ScrapeAttempts:  3,
			ProcessAttempts: 2,
			Workers:         4,
			UserAgent:       "news-aggregator/1.0",
		},
		Auth: AuthConfig{
			JWTSecretEnv:      "JWT_SECRET",
			ExpiryHours:       24,
			MinPasswordLength: 8,
		},
	}
}

// LoadNewsConfig builds the configuration from defaults, the optional YAML
// file at path, and environment overrides, in that order.
// An empty path skips the file.
func LoadNewsConfig(path string) (*NewsConfig, error) {
	cfg := DefaultNewsConfig()

	if path != "" {
		// #nosec G304 -- path comes from NEWS_CONFIG_FILE or a CLI flag
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid news configuration: %w", err)
	}
	return cfg, nil
}

func (c *NewsConfig) applyEnv() {
	c.NewsAPI.APIKey = pkgconfig.GetEnvString("NEWSAPI_KEY", c.NewsAPI.APIKey)
	c.NewsAPI.BaseURL = pkgconfig.GetEnvString("NEWSAPI_URL", c.NewsAPI.BaseURL)
	c.NewsAPI.DailyQuota = pkgconfig.GetEnvInt("NEWSAPI_DAILY_QUOTA", c.NewsAPI.DailyQuota)

	c.Guardian.APIKey = pkgconfig.GetEnvString("GUARDIAN_API_KEY", c.Guardian.APIKey)
	c.Guardian.BaseURL = pkgconfig.GetEnvString("GUARDIAN_URL", c.Guardian.BaseURL)
	c.Guardian.DailyQuota = pkgconfig.GetEnvInt("GUARDIAN_DAILY_QUOTA", c.Guardian.DailyQuota)

	timeout := pkgconfig.GetEnvDuration("PROVIDER_TIMEOUT", 0)
	pageSize := pkgconfig.GetEnvInt("PROVIDER_PAGE_SIZE", 0)
	for _, p := range []*ProviderConfig{&c.NewsAPI, &c.Guardian, &c.RSS} {
		if timeout > 0 {
			p.Timeout = timeout
		}
		if pageSize > 0 {
			p.PageSize = pageSize
		}
	}

	s := &c.Scraping
	s.MaxArticles = pkgconfig.GetEnvInt("SCRAPE_MAX_ARTICLES", s.MaxArticles)
	s.RetentionDays = pkgconfig.GetEnvInt("NEWS_RETENTION_DAYS", s.RetentionDays)
	s.RunTimeout = pkgconfig.GetEnvDuration("SCRAPE_RUN_TIMEOUT", s.RunTimeout)
	s.ProcessTimeout = pkgconfig.GetEnvDuration("PROCESS_TIMEOUT", s.ProcessTimeout)
	s.ScrapeAttempts = pkgconfig.GetEnvInt("SCRAPE_MAX_ATTEMPTS", s.ScrapeAttempts)
	s.ProcessAttempts = pkgconfig.GetEnvInt("PROCESS_MAX_ATTEMPTS", s.ProcessAttempts)
	s.Workers = pkgconfig.GetEnvInt("QUEUE_WORKERS", s.Workers)
	s.UserAgent = pkgconfig.GetEnvString("SCRAPE_USER_AGENT", s.UserAgent)
	s.EnrichContent = pkgconfig.GetEnvBool("CONTENT_ENRICHMENT_ENABLED", s.EnrichContent)

	c.Auth.ExpiryHours = pkgconfig.GetEnvInt("JWT_EXPIRY_HOURS", c.Auth.ExpiryHours)
}

// Validate reports the first invalid setting.
func (c *NewsConfig) Validate() error {
	providers := []struct {
		name   string
		cfg    ProviderConfig
		remote bool
	}{
		{"newsapi", c.NewsAPI, true},
		{"guardian", c.Guardian, true},
		{"rss", c.RSS, false},
	}
	for _, p := range providers {
		if p.remote && p.cfg.BaseURL == "" {
			return fmt.Errorf("%s base_url cannot be empty", p.name)
		}
		if p.remote && p.cfg.DailyQuota <= 0 {
			return fmt.Errorf("%s daily_quota must be positive", p.name)
		}
		if p.cfg.PageSize <= 0 || p.cfg.PageSize > 100 {
			return fmt.Errorf("%s page_size must be between 1 and 100", p.name)
		}
		if p.cfg.Timeout <= 0 {
			return fmt.Errorf("%s timeout must be positive", p.name)
		}
	}

	s := c.Scraping
	switch {
	case s.MaxArticles <= 0:
		return errors.New("SCRAPE_MAX_ARTICLES must be positive")
	case s.RetentionDays <= 0:
		return errors.New("NEWS_RETENTION_DAYS must be positive")
	case s.RunTimeout <= 0:
		return errors.New("SCRAPE_RUN_TIMEOUT must be positive")
	case s.ProcessTimeout <= 0:
		return errors.New("PROCESS_TIMEOUT must be positive")
	case s.ScrapeAttempts < 1:
		return errors.New("SCRAPE_MAX_ATTEMPTS must be at least 1")
	case s.ProcessAttempts < 1:
		return errors.New("PROCESS_MAX_ATTEMPTS must be at least 1")
	case s.Workers < 1:
		return errors.New("QUEUE_WORKERS must be at least 1")
	}

	if c.Auth.JWTSecretEnv == "" {
		return errors.New("auth jwt_secret_env is required")
	}
	if c.Auth.ExpiryHours <= 0 {
		return errors.New("JWT_EXPIRY_HOURS must be positive")
	}
	if c.Auth.MinPasswordLength < 8 {
		return errors.New("auth min_password_length must be at least 8")
	}
	return nil
}

// TokenTTL returns the bearer token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.ExpiryHours) * time.Hour
}

// Retention returns the retention window.
func (s ScrapingConfig) Retention() time.Duration {
	return time.Duration(s.RetentionDays) * 24 * time.Hour
}
