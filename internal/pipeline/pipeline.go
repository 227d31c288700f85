// Package pipeline assembles the ingestion, post-processing and dispatch
// use cases into one job pipeline shared by the worker and newsctl.
package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"news-aggregator/internal/config"
	pgRepo "news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/infra/fetcher"
	"news-aggregator/internal/infra/lease"
	"news-aggregator/internal/infra/provider"
	"news-aggregator/internal/repository"
	"news-aggregator/internal/usecase/dispatch"
	"news-aggregator/internal/usecase/ingest"
	"news-aggregator/internal/usecase/postprocess"
	"news-aggregator/internal/usecase/retention"
)

// Deps are the collaborators a pipeline is built from. Providers and
// Fetcher are optional: nil Providers uses the configured registry, and nil
// Fetcher builds a readability fetcher when content enrichment is enabled.
type Deps struct {
	Articles   repository.ArticleRepository
	Sources    repository.SourceRepository
	Categories repository.CategoryRepository
	Queue      dispatch.Queue
	Locker     dispatch.Locker
	Providers  ingest.ProviderResolver
	Fetcher    postprocess.ContentFetcher
}

// PostgresDeps returns Deps backed by the postgres repositories.
func PostgresDeps(db *sql.DB, queue dispatch.Queue, locker dispatch.Locker) Deps {
	return Deps{
		Articles:   pgRepo.NewArticleRepo(db),
		Sources:    pgRepo.NewSourceRepo(db),
		Categories: pgRepo.NewCategoryRepo(db),
		Queue:      queue,
		Locker:     locker,
	}
}

// Pipeline holds the wired use cases.
type Pipeline struct {
	Dispatcher   *dispatch.Service
	Orchestrator *ingest.Orchestrator
	Runner       *dispatch.GuardedRunner // orchestrator under lease and run timeout
	Processor    *postprocess.Service
	Retention    *retention.Service
	Executor     *dispatch.Executor
	Policies     dispatch.Policies
}

// New wires the pipeline. It loads the category table once and fails when
// the fallback category is missing.
func New(ctx context.Context, cfg *config.NewsConfig, d Deps) (*Pipeline, error) {
	categories, err := ingest.NewCategoryResolver(ctx, d.Categories)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}

	providers := d.Providers
	if providers == nil {
		providers = provider.NewRegistry(cfg)
	}

	contentFetcher := d.Fetcher
	threshold := postprocess.DefaultEnrichThreshold
	if contentFetcher == nil && cfg.Scraping.EnrichContent {
		fcfg, err := fetcher.ConfigFromEnv(cfg.Scraping.UserAgent)
		if err != nil {
			slog.Warn("invalid content fetch configuration, enrichment disabled", slog.Any("error", err))
		} else {
			contentFetcher = fetcher.NewReadabilityFetcher(fcfg)
			threshold = fcfg.Threshold
		}
	}

	dispatcher := dispatch.NewService(d.Sources, d.Queue)
	orchestrator := ingest.NewOrchestrator(d.Articles, d.Sources, providers, categories, dispatcher, cfg.Scraping.MaxArticles)

	processor := postprocess.NewService(d.Articles, contentFetcher)
	processor.EnrichThreshold = threshold

	locker := d.Locker
	if locker == nil {
		locker = lease.NoopLocker{}
	}
	policies := dispatch.PoliciesFromConfig(cfg.Scraping)
	handler := &dispatch.JobHandler{
		Sources:   d.Sources,
		Runner:    orchestrator,
		Processor: processor,
		Locker:    locker,
		LeaseTTL:  cfg.Scraping.RunTimeout,
	}

	return &Pipeline{
		Dispatcher:   dispatcher,
		Orchestrator: orchestrator,
		Runner: &dispatch.GuardedRunner{
			Runner:   orchestrator,
			Locker:   locker,
			LeaseTTL: cfg.Scraping.RunTimeout,
			Timeout:  cfg.Scraping.RunTimeout,
		},
		Processor: processor,
		Retention: retention.NewService(d.Articles),
		Executor:  dispatch.NewExecutor(handler, policies),
		Policies:  policies,
	}, nil
}
