// Package entity defines the core domain entities and validation logic for the application.
// It contains the fundamental business objects such as Article, Source and Category, along with
// their validation rules and domain-specific errors.
package entity

import (
	"math"
	"strings"
	"time"
)

// WordsPerMinute is the reading speed used for reading-time estimates.
const WordsPerMinute = 200

// Article represents a news article ingested from a provider.
// URL is the sole deduplication key and is stored verbatim.
type Article struct {
	ID                 int64
	UUID               string
	SourceID           int64
	CategoryID         *int64
	Title              string
	Description        string
	Content            string
	URL                string
	ImageURL           string
	Author             string
	PublishedAt        time.Time
	Metadata           Metadata
	Language           string
	Country            string
	WordCount          int
	ReadingTimeMinutes int
	Active             bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// Validate checks the fields required before an article is persisted.
func (a *Article) Validate() error {
	if strings.TrimSpace(a.Title) == "" {
		return &ValidationError{Field: "title", Message: "title is required"}
	}
	if strings.TrimSpace(a.URL) == "" {
		return &ValidationError{Field: "url", Message: "url is required"}
	}
	if a.SourceID <= 0 {
		return &ValidationError{Field: "source_id", Message: "source_id must be positive"}
	}
	if a.PublishedAt.IsZero() {
		return &ValidationError{Field: "published_at", Message: "published_at is required"}
	}
	return nil
}

// ReadingTimeMinutes returns max(1, ceil(wordCount / WordsPerMinute)).
func ReadingTimeMinutes(wordCount int) int {
	minutes := int(math.Ceil(float64(wordCount) / WordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Metadata is the free-form JSON blob owned by an article or a source's stats.
type Metadata map[string]any

// Merge returns a new map holding m overlaid with other.
// Keys present in other win; keys only in m are retained.
func (m Metadata) Merge(other Metadata) Metadata {
	out := make(Metadata, len(m)+len(other))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
