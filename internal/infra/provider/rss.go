package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/usecase/ingest"
)

// RSS reads a source's own RSS/Atom feed at source.url.
type RSS struct {
	client *client
}

func NewRSS(cfg config.ProviderConfig, userAgent string) *RSS {
	return &RSS{client: newClient(string(KindRSS), cfg, userAgent)}
}

func (p *RSS) Name() string { return string(KindRSS) }

func (p *RSS) Taxonomy() ingest.Taxonomy { return ingest.TaxonomyKeywords }

func (p *RSS) Fetch(ctx context.Context, src *entity.Source, limit int) ([]ingest.RawArticle, error) {
	feedURL := src.ConfigValue("feed_url", src.URL)
	if feedURL == "" {
		return nil, &ProviderError{Provider: p.Name(), Err: ErrMissingFeedURL}
	}

	body, err := p.client.get(ctx, feedURL)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("parse feed: %w", err)}
	}

	items := feed.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	out := make([]ingest.RawArticle, 0, len(items))
	for _, it := range items {
		// Content優先、なければDescriptionを使用
		content := it.Content
		if content == "" {
			content = it.Description
		}
		out = append(out, ingest.RawArticle{
			URL:         strings.TrimSpace(it.Link),
			Title:       it.Title,
			Description: it.Description,
			Content:     content,
			ImageURL:    itemImage(it),
			Author:      itemAuthor(it),
			PublishedAt: itemPublished(it),
			Raw:         itemRaw(it),
		})
	}
	return out, nil
}

// itemImage prefers the feed's own image fields, then the first <img> in
// the item's HTML.
func itemImage(it *gofeed.Item) string {
	if it.Image != nil && it.Image.URL != "" {
		return it.Image.URL
	}
	for _, enc := range it.Enclosures {
		if strings.HasPrefix(enc.Type, "image/") && enc.URL != "" {
			return enc.URL
		}
	}
	for _, html := range []string{it.Content, it.Description} {
		if html == "" {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			continue
		}
		if src, ok := doc.Find("img[src]").First().Attr("src"); ok && src != "" {
			return src
		}
	}
	return ""
}

func itemAuthor(it *gofeed.Item) string {
	if it.Author != nil && it.Author.Name != "" {
		return it.Author.Name
	}
	if len(it.Authors) > 0 && it.Authors[0] != nil {
		return it.Authors[0].Name
	}
	return ""
}

func itemPublished(it *gofeed.Item) string {
	switch {
	case it.PublishedParsed != nil:
		return it.PublishedParsed.UTC().Format(time.RFC3339)
	case it.UpdatedParsed != nil:
		return it.UpdatedParsed.UTC().Format(time.RFC3339)
	default:
		return it.Published
	}
}

func itemRaw(it *gofeed.Item) json.RawMessage {
	raw, err := json.Marshal(map[string]any{
		"guid":       it.GUID,
		"link":       it.Link,
		"title":      it.Title,
		"categories": it.Categories,
		"published":  it.Published,
	})
	if err != nil {
		return nil
	}
	return raw
}
