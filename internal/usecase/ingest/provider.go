package ingest

import (
	"context"
	"encoding/json"

	"news-aggregator/internal/domain/entity"
)

// Taxonomy selects the categorization strategy for a provider's records.
type Taxonomy int

const (
	// TaxonomyKeywords scores title and description against keyword lists.
	TaxonomyKeywords Taxonomy = iota
	// TaxonomySections maps the provider's own section label.
	TaxonomySections
)

// RawArticle is one provider record before normalization.
// PublishedAt is kept as the provider sent it.
type RawArticle struct {
	URL         string
	Title       string
	Description string
	Content     string
	ImageURL    string
	Author      string
	PublishedAt string
	Section     string
	Raw         json.RawMessage
}

// Provider fetches the current article listing for a source.
// Implementations issue a single request and never retry.
type Provider interface {
	Name() string
	Taxonomy() Taxonomy
	Fetch(ctx context.Context, src *entity.Source, limit int) ([]RawArticle, error)
}

// ProviderResolver returns the provider bound to a source, or an error
// wrapping ErrUnknownProvider.
type ProviderResolver interface {
	Resolve(src *entity.Source) (Provider, error)
}

// PostProcessEnqueuer schedules post-processing for a newly stored article.
type PostProcessEnqueuer interface {
	EnqueueProcessArticle(ctx context.Context, articleID int64) error
}
