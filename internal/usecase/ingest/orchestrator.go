package ingest

import (
	"context"
	"errors"
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
)

// DefaultMaxArticles caps the records processed per run.
const DefaultMaxArticles = 100

// Result summarizes one run. Saved + Skipped + Errors == TotalFetched.
type Result struct {
	SourceName   string `json:"source"`
	TotalFetched int    `json:"total_fetched"`
	Saved        int    `json:"saved"`
	Skipped      int    `json:"skipped"`
	Errors       int    `json:"errors"`
	Error        string `json:"error,omitempty"`
}

// Orchestrator runs ingestion for one source at a time. It holds no per-run
// state and is safe for concurrent use across sources.
type Orchestrator struct {
	Articles    repository.ArticleRepository
	Sources     repository.SourceRepository
	Providers   ProviderResolver
	Categories  *CategoryResolver
	Enqueuer    PostProcessEnqueuer
	MaxArticles int
	Now         func() time.Time
}

// NewOrchestrator wires an orchestrator. enqueuer may be nil, in which case
// new articles are not scheduled for post-processing.
func NewOrchestrator(
	articles repository.ArticleRepository,
	sources repository.SourceRepository,
	providers ProviderResolver,
	categories *CategoryResolver,
	enqueuer PostProcessEnqueuer,
	maxArticles int,
) *Orchestrator {
	if maxArticles <= 0 {
		maxArticles = DefaultMaxArticles
	}
	return &Orchestrator{
		Articles:    articles,
		Sources:     sources,
		Providers:   providers,
		Categories:  categories,
		Enqueuer:    enqueuer,
		MaxArticles: maxArticles,
		Now:         time.Now,
	}
}

// Run fetches, filters and stores articles for src, then records the run
// on the source. A provider failure aborts the run before anything is
// written and leaves the source untouched. A run cancelled midway still
// records its partial stats, marked interrupted.
func (o *Orchestrator) Run(ctx context.Context, src *entity.Source) (res *Result, err error) {
	start := o.Now()
	logger := logging.WithSource(logging.FromContext(ctx), src)
	res = &Result{SourceName: src.Name}

	ctx, span := tracing.StartSpan(ctx, "ingest.run",
		attribute.Int64("source.id", src.ID),
		attribute.String("source.slug", src.Slug))
	status := metrics.RunSuccess
	defer func() {
		span.SetAttributes(
			attribute.Int("ingest.fetched", res.TotalFetched),
			attribute.Int("ingest.saved", res.Saved),
			attribute.Int("ingest.skipped", res.Skipped),
		)
		tracing.EndSpan(span, err)
		metrics.RecordIngestRun(src.Slug, status, o.Now().Sub(start), res.Saved, res.Skipped, res.Errors)
	}()

	provider, err := o.Providers.Resolve(src)
	if err != nil {
		status = metrics.RunUnknownProvider
		res.Error = err.Error()
		return res, fmt.Errorf("Run: %w", err)
	}

	raws, err := provider.Fetch(ctx, src, o.MaxArticles)
	if err != nil {
		status = metrics.RunProviderFailed
		res.Error = err.Error()
		logger.Warn("provider request failed",
			slog.String("provider", provider.Name()),
			slog.Any("error", err))
		return res, fmt.Errorf("Run: %w", err)
	}
	if len(raws) > o.MaxArticles {
		raws = raws[:o.MaxArticles]
	}
	res.TotalFetched = len(raws)

	existing := o.existingURLs(ctx, logger, raws)
	seen := make(map[string]bool, len(raws))
	now := o.Now()

	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			status = metrics.RunError
			return res, o.interrupted(ctx, logger, src, now, res, err)
		}

		if strings.TrimSpace(raw.URL) == "" || existing[raw.URL] || seen[raw.URL] {
			res.Skipped++
			continue
		}
		if strings.TrimSpace(raw.Title) == "" {
			res.Skipped++
			continue
		}

		slug := Categorize(provider.Taxonomy(), raw)
		article := Normalize(raw, src, provider.Name(), o.Categories.ID(slug), now)
		if err := article.Validate(); err != nil {
			res.Skipped++
			continue
		}

		seen[raw.URL] = true
		if err := o.Articles.Create(ctx, article); err != nil {
			if errors.Is(err, repository.ErrDuplicateURL) {
				res.Skipped++
				continue
			}
			if ctx.Err() != nil {
				status = metrics.RunError
				return res, o.interrupted(ctx, logger, src, now, res, ctx.Err())
			}
			res.Errors++
			logger.Error("failed to store article",
				slog.String("url", raw.URL),
				slog.Any("error", err))
			continue
		}
		res.Saved++
		o.enqueue(ctx, logger, article)
	}

	if err := o.touch(ctx, src, now, res, false); err != nil {
		status = metrics.RunError
		return res, fmt.Errorf("Run: TouchScraped: %w", err)
	}

	logger.Info("source ingestion completed",
		slog.String("provider", provider.Name()),
		slog.Int("total_fetched", res.TotalFetched),
		slog.Int("saved", res.Saved),
		slog.Int("skipped", res.Skipped),
		slog.Int("errors", res.Errors),
		slog.Int64("duration_ms", o.Now().Sub(start).Milliseconds()))
	return res, nil
}

// touch writes the run stats and scrape time on the source. It runs detached
// from ctx so a cancelled run still records what it committed.
func (o *Orchestrator) touch(ctx context.Context, src *entity.Source, now time.Time, res *Result, interrupted bool) error {
	stats := entity.Metadata{
		"total_fetched": res.TotalFetched,
		"saved":         res.Saved,
		"skipped":       res.Skipped,
		"errors":        res.Errors,
		"source":        src.Name,
		"finished_at":   o.Now().UTC().Format(time.RFC3339),
	}
	if interrupted {
		stats["interrupted"] = true
	}
	return o.Sources.TouchScraped(context.WithoutCancel(ctx), src.ID, now, stats)
}

// interrupted records the partial run and returns the cancellation cause.
func (o *Orchestrator) interrupted(ctx context.Context, logger *slog.Logger, src *entity.Source, now time.Time, res *Result, cause error) error {
	res.Error = cause.Error()
	if err := o.touch(ctx, src, now, res, true); err != nil {
		logger.Error("failed to record interrupted run", slog.Any("error", err))
	}
	logger.Warn("source ingestion interrupted",
		slog.Int("saved", res.Saved),
		slog.Int("skipped", res.Skipped),
		slog.Any("error", cause))
	return fmt.Errorf("Run: %w", cause)
}

// existingURLs checks every candidate URL in one query. On failure the run
// continues and relies on the unique constraint to reject duplicates.
func (o *Orchestrator) existingURLs(ctx context.Context, logger *slog.Logger, raws []RawArticle) map[string]bool {
	urls := make([]string, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.URL) != "" {
			urls = append(urls, r.URL)
		}
	}
	if len(urls) == 0 {
		return map[string]bool{}
	}
	existing, err := o.Articles.ExistsByURLBatch(ctx, urls)
	if err != nil {
		logger.Warn("batch url check failed, falling back to insert conflicts", slog.Any("error", err))
		return map[string]bool{}
	}
	return existing
}

func (o *Orchestrator) enqueue(ctx context.Context, logger *slog.Logger, a *entity.Article) {
	if o.Enqueuer == nil {
		return
	}
	if err := o.Enqueuer.EnqueueProcessArticle(ctx, a.ID); err != nil {
		logger.Warn("failed to enqueue post-processing",
			slog.Int64("article_id", a.ID),
			slog.Any("error", err))
	}
}
