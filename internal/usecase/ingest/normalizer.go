package ingest

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/utils/text"
)

var publishedLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC1123Z,
	time.RFC1123,
}

// ParsePublished parses a provider timestamp, returning fallback when the
// value is empty or unparseable.
func ParsePublished(s string, fallback time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return fallback
	}
	for _, layout := range publishedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return fallback
}

// Normalize converts a raw record into the stored article shape.
func Normalize(raw RawArticle, src *entity.Source, providerName string, categoryID int64, now time.Time) *entity.Article {
	meta := entity.Metadata{"source_api": providerName}
	if len(raw.Raw) > 0 {
		meta["original_data"] = raw.Raw
	}
	if raw.Section != "" {
		meta["section"] = raw.Section
	}

	a := &entity.Article{
		UUID:        uuid.NewString(),
		SourceID:    src.ID,
		CategoryID:  &categoryID,
		Title:       strings.TrimSpace(raw.Title),
		Description: strings.TrimSpace(raw.Description),
		Content:     strings.TrimSpace(raw.Content),
		URL:         raw.URL,
		ImageURL:    strings.TrimSpace(raw.ImageURL),
		Author:      strings.TrimSpace(raw.Author),
		PublishedAt: ParsePublished(raw.PublishedAt, now),
		Metadata:    meta,
		Language:    src.Language,
		Country:     src.Country,
		Active:      true,
	}
	if a.Content != "" {
		a.WordCount = text.WordCount(a.Content)
		a.ReadingTimeMinutes = entity.ReadingTimeMinutes(a.WordCount)
	}
	return a
}
