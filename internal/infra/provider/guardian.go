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
	"news-aggregator/internal/utils/text"
)

// Guardian is the full-text search provider (content.guardianapis.com).
// Its records carry a section label used for categorization.
type Guardian struct {
	cfg    config.ProviderConfig
	client *client
}

func NewGuardian(cfg config.ProviderConfig, userAgent string) *Guardian {
	return &Guardian{cfg: cfg, client: newClient(string(KindGuardian), cfg, userAgent)}
}

func (p *Guardian) Name() string { return string(KindGuardian) }

func (p *Guardian) Taxonomy() ingest.Taxonomy { return ingest.TaxonomySections }

type guardianResponse struct {
	Response struct {
		Status  string            `json:"status"`
		Message string            `json:"message"`
		Results []json.RawMessage `json:"results"`
	} `json:"response"`
}

type guardianResult struct {
	ID                 string `json:"id"`
	SectionID          string `json:"sectionId"`
	WebTitle           string `json:"webTitle"`
	WebURL             string `json:"webUrl"`
	WebPublicationDate string `json:"webPublicationDate"`
	Fields             struct {
		Headline  string `json:"headline"`
		TrailText string `json:"trailText"`
		Body      string `json:"body"`
		Thumbnail string `json:"thumbnail"`
		Byline    string `json:"byline"`
	} `json:"fields"`
}

func (p *Guardian) requestURL(src *entity.Source, limit int) string {
	q := url.Values{}
	q.Set("api-key", p.cfg.APIKey)
	q.Set("page-size", strconv.Itoa(pageSize(limit, p.cfg.PageSize)))
	q.Set("show-fields", "headline,trailText,body,thumbnail,byline")
	q.Set("order-by", "newest")
	if section := src.ConfigValue("section", ""); section != "" {
		q.Set("section", section)
	}
	return strings.TrimRight(p.cfg.BaseURL, "/") + "/search?" + q.Encode()
}

func (p *Guardian) Fetch(ctx context.Context, src *entity.Source, limit int) ([]ingest.RawArticle, error) {
	if p.cfg.APIKey == "" {
		return nil, retry.Permanent(&ProviderError{Provider: p.Name(), Err: ErrMissingAPIKey})
	}

	body, err := p.client.get(ctx, p.requestURL(src, limit))
	if err != nil {
		return nil, err
	}

	var resp guardianResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("decode response: %w", err)}
	}
	if resp.Response.Status == "error" {
		return nil, &ProviderError{Provider: p.Name(), Err: fmt.Errorf("%s", resp.Response.Message)}
	}

	out := make([]ingest.RawArticle, 0, len(resp.Response.Results))
	for _, raw := range resp.Response.Results {
		var r guardianResult
		if err := json.Unmarshal(raw, &r); err != nil {
			continue
		}
		out = append(out, ingest.RawArticle{
			URL:         r.WebURL,
			Title:       fallback(r.Fields.Headline, r.WebTitle),
			Description: r.Fields.TrailText,
			Content:     text.StripTags(r.Fields.Body),
			ImageURL:    r.Fields.Thumbnail,
			Author:      r.Fields.Byline,
			PublishedAt: r.WebPublicationDate,
			Section:     r.SectionID,
			Raw:         raw,
		})
	}
	return out, nil
}
