package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"news-aggregator/internal/config"
	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/resilience/retry"
	"news-aggregator/internal/usecase/ingest"
)

// NewsAPI is the headline provider (newsapi.org top-headlines).
type NewsAPI struct {
	cfg    config.ProviderConfig
	client *client
}

func NewNewsAPI(cfg config.ProviderConfig, userAgent string) *NewsAPI {
	return &NewsAPI{cfg: cfg, client: newClient(string(KindNewsAPI), cfg, userAgent)}
}

func (p *NewsAPI) Name() string { return string(KindNewsAPI) }

func (p *NewsAPI) Taxonomy() ingest.Taxonomy { return ingest.TaxonomyKeywords }

type newsAPIResponse struct {
	Status   string            `json:"status"`
	Code     string            `json:"code"`
	Message  string            `json:"message"`
	Articles []json.RawMessage `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Author      string `json:"author"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
	Content     string `json:"content"`
}

// requestURL builds the top-headlines query. "sources" cannot be combined
// with "country" upstream, so country is only sent without it.
func (p *NewsAPI) requestURL(src *entity.Source, limit int) string {
	q := url.Values{}
	q.Set("apiKey", p.cfg.APIKey)
	q.Set("pageSize", strconv.Itoa(pageSize(limit, p.cfg.PageSize)))
	if sources := src.ConfigValue("sources", ""); sources != "" {
		q.Set("sources", sources)
	} else {
		q.Set("country", src.ConfigValue("country", fallback(src.Country, "us")))
		if category := src.ConfigValue("category", ""); category != "" {
			q.Set("category", category)
		}
	}
	return strings.TrimRight(p.cfg.BaseURL, "/") + "/top-headlines?" + q.Encode()
}

func (p *NewsAPI) Fetch(ctx context.Context, src *entity.Source, limit int) ([]ingest.RawArticle, error) {
	if p.cfg.APIKey == "" {
		return nil, retry.Permanent(&ProviderError{Provider: p.Name(), Err: ErrMissingAPIKey})
	}

	body, err := p.client.get(ctx, p.requestURL(src, limit))
	if err != nil {
		return nil, err
	}

	var resp newsAPIResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.Status == "error" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s: %s", resp.Code, resp.Message)}
	}

	out := make([]ingest.RawArticle, 0, len(resp.Articles))
	for _, raw := range resp.Articles {
		var a newsAPIArticle
		if err := json.Unmarshal(raw, &a); err != nil {
			continue
		}
		out = append(out, ingest.RawArticle{
			URL:         a.URL,
			Title:       a.Title,
			Description: a.Description,
			Content:     fallback(a.Content, a.Description),
			ImageURL:    a.URLToImage,
			Author:      a.Author,
			PublishedAt: a.PublishedAt,
			Raw:         raw,
		})
	}
	return out, nil
}

func fallback(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
