package postprocess

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/resilience/retry"
	"news-aggregator/internal/utils/text"
)

// DefaultEnrichThreshold is the stripped content length, in runes, under
// which enrichment is attempted.
const DefaultEnrichThreshold = 1500

// ContentFetcher fetches the readable text of an article page.
type ContentFetcher interface {
	FetchContent(ctx context.Context, url string) (string, error)
}

// Service post-processes one article per call. Re-running it on an
// unchanged article yields the same content, metrics and keywords.
type Service struct {
	Articles repository.ArticleRepository
	// Fetcher is optional; nil disables enrichment.
	Fetcher         ContentFetcher
	EnrichThreshold int
	Now             func() time.Time
}

func NewService(articles repository.ArticleRepository, fetcher ContentFetcher) *Service {
	return &Service{
		Articles:        articles,
		Fetcher:         fetcher,
		EnrichThreshold: DefaultEnrichThreshold,
		Now:             time.Now,
	}
}

// Process cleans, measures and tags the article and stores the result in
// one update. A missing article is a permanent failure.
func (s *Service) Process(ctx context.Context, articleID int64) (err error) {
	start := s.Now()
	ctx, span := tracing.StartSpan(ctx, "postprocess.article", attribute.Int64("article.id", articleID))
	defer func() {
		tracing.EndSpan(span, err)
		status := "success"
		if err != nil {
			status = "error"
		}
		metrics.RecordPostProcess(status, s.Now().Sub(start))
	}()

	logger := logging.FromContext(ctx).With(slog.Int64("article_id", articleID))

	a, err := s.Articles.Get(ctx, articleID)
	if err != nil {
		return fmt.Errorf("Process: %w", err)
	}
	if a == nil {
		return retry.Permanent(fmt.Errorf("Process: article %d: %w", articleID, ErrArticleNotFound))
	}

	meta := entity.Metadata{}
	content := a.Content
	if enriched, ok := s.enrich(ctx, logger, a); ok {
		content = enriched
		meta["content_enriched"] = true
	}

	if text.HasMarkup(content) {
		content = text.CleanHTML(content)
	}
	a.Content = content

	if strings.TrimSpace(a.Description) == "" && content != "" {
		a.Description = Excerpt(content)
	}

	basis := content
	if basis == "" {
		basis = a.Description
	}
	a.WordCount = text.WordCount(basis)
	a.ReadingTimeMinutes = entity.ReadingTimeMinutes(a.WordCount)
	keywords := ExtractKeywords(basis, MaxKeywords)

	meta["processed_at"] = s.Now().UTC().Format(time.RFC3339)
	meta["keywords"] = keywords
	meta["content_length"] = text.CountRunes(content)

	if err := s.Articles.UpdateProcessed(ctx, a, meta); err != nil {
		return fmt.Errorf("Process: UpdateProcessed: %w", err)
	}

	logger.Info("article content processed",
		slog.Int("word_count", a.WordCount),
		slog.Int("reading_time", a.ReadingTimeMinutes),
		slog.Int("keywords", len(keywords)))
	return nil
}

// enrich replaces truncated or short content with the page's readable text.
// Any failure keeps the stored content.
func (s *Service) enrich(ctx context.Context, logger *slog.Logger, a *entity.Article) (string, bool) {
	if s.Fetcher == nil || a.URL == "" {
		return "", false
	}
	if !IsTruncated(a.Content) && text.CountRunes(text.StripTags(a.Content)) >= s.EnrichThreshold {
		return "", false
	}

	start := s.Now()
	fetched, err := s.Fetcher.FetchContent(ctx, a.URL)
	if err != nil {
		metrics.RecordContentFetch("fallback", s.Now().Sub(start))
		logger.Warn("content enrichment failed, keeping provider content",
			slog.String("url", a.URL),
			slog.Any("error", err))
		return "", false
	}
	// 取得結果の方が短い場合は元のコンテンツを使う
	if text.CountRunes(fetched) <= text.CountRunes(text.StripTags(a.Content)) {
		metrics.RecordContentFetch("skipped", s.Now().Sub(start))
		return "", false
	}
	metrics.RecordContentFetch("success", s.Now().Sub(start))
	return fetched, true
}
