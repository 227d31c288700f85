package entity

import (
	"regexp"
	"strings"
	"time"
)

// DefaultScrapeIntervalMinutes is applied when a source does not set its own interval.
const DefaultScrapeIntervalMinutes = 120

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Source represents a configured news origin bound to one provider.
// APIConfig carries provider-specific request parameters (country, category, sources, section).
type Source struct {
	ID                    int64
	Name                  string
	Slug                  string
	Description           string
	URL                   string
	APIEndpoint           string
	APIKeyRequired        bool
	APIConfig             map[string]string
	Language              string
	Country               string
	LogoURL               string
	Active                bool
	ScrapeIntervalMinutes int
	LastScrapedAt         *time.Time
	ScrapeStats           Metadata
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ScrapeInterval returns the configured interval, falling back to the default.
func (s *Source) ScrapeInterval() time.Duration {
	minutes := s.ScrapeIntervalMinutes
	if minutes <= 0 {
		minutes = DefaultScrapeIntervalMinutes
	}
	return time.Duration(minutes) * time.Minute
}

// IsDue reports whether the source should be scraped at now:
// active, and either never scraped or scraped at least one interval ago.
func (s *Source) IsDue(now time.Time) bool {
	if !s.Active {
		return false
	}
	if s.LastScrapedAt == nil {
		return true
	}
	return now.Sub(*s.LastScrapedAt) >= s.ScrapeInterval()
}

// ConfigValue returns api_config[key] or fallback when unset.
func (s *Source) ConfigValue(key, fallback string) string {
	if v, ok := s.APIConfig[key]; ok && v != "" {
		return v
	}
	return fallback
}

// Validate validates the Source entity fields.
func (s *Source) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}
	if !slugPattern.MatchString(s.Slug) {
		return &ValidationError{Field: "slug", Message: "slug must be lowercase words separated by hyphens"}
	}
	if err := ValidateURL(s.URL); err != nil {
		return err
	}
	if s.ScrapeIntervalMinutes < 0 {
		return &ValidationError{Field: "scrape_interval_minutes", Message: "scrape_interval_minutes cannot be negative"}
	}
	if s.Language != "" && len(s.Language) > 5 {
		return &ValidationError{Field: "language", Message: "language is too long"}
	}
	if s.Country != "" && len(s.Country) != 2 {
		return &ValidationError{Field: "country", Message: "country must be a 2-letter code"}
	}
	return nil
}
