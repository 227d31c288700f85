package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/usecase/dispatch"
	"news-aggregator/internal/usecase/ingest"
)

// sourceFinder is the part of the source repository scrape needs.
type sourceFinder interface {
	GetBySlug(ctx context.Context, slug string) (*entity.Source, error)
	ListActive(ctx context.Context) ([]*entity.Source, error)
}

// dispatcher enqueues scrape jobs on a broker.
type dispatcher interface {
	DispatchDue(ctx context.Context) (int, error)
	DispatchSlug(ctx context.Context, slug string) error
}

// purger is the retention use case.
type purger interface {
	Count(ctx context.Context, days int) (int64, error)
	Purge(ctx context.Context, days int) (int64, error)
}

// selectSources returns the active source named slug, every active source
// when all is set, or the sources due at now.
func selectSources(ctx context.Context, repo sourceFinder, slug string, all bool, now time.Time) ([]*entity.Source, error) {
	if slug != "" {
		src, err := repo.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		if src == nil || !src.Active {
			return nil, fmt.Errorf("%q: %w", slug, dispatch.ErrSourceNotFound)
		}
		return []*entity.Source{src}, nil
	}
	active, err := repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	if all {
		return active, nil
	}
	var due []*entity.Source
	for _, src := range active {
		if src.IsDue(now) {
			due = append(due, src)
		}
	}
	return due, nil
}

// scrapeSync runs ingestion in-process and prints one row per source. A
// failing source is reported and the rest still run; the returned error
// counts the failures.
func scrapeSync(ctx context.Context, out io.Writer, sources []*entity.Source, runner dispatch.SourceRunner) error {
	if len(sources) == 0 {
		_, _ = fmt.Fprintln(out, "no sources to scrape")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "SOURCE\tFETCHED\tSAVED\tSKIPPED\tERRORS\tSTATUS")
	failed := 0
	for _, src := range sources {
		res, err := runner.Run(ctx, src)
		switch {
		case errors.Is(err, ingest.ErrUnknownProvider):
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tskipped: no provider\n", src.Slug)
		case errors.Is(err, dispatch.ErrSourceBusy):
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tskipped: already running\n", src.Slug)
		case err != nil:
			failed++
			slog.Error("scrape failed", slog.String("source_slug", src.Slug), slog.Any("error", err))
			_, _ = fmt.Fprintf(tw, "%s\t-\t-\t-\t-\tfailed: %v\n", src.Slug, err)
		default:
			_, _ = fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\tok\n", src.Slug, res.TotalFetched, res.Saved, res.Skipped, res.Errors)
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d sources failed", failed, len(sources))
	}
	return nil
}

// scrapeAsync enqueues scrape jobs for the worker to pick up.
func scrapeAsync(ctx context.Context, out io.Writer, d dispatcher, slug string) error {
	if slug != "" {
		if err := d.DispatchSlug(ctx, slug); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(out, "enqueued scrape job for %s\n", slug)
		return nil
	}
	n, err := d.DispatchDue(ctx)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "enqueued %d scrape jobs\n", n)
	return nil
}

// cleanup counts expired articles, asks for confirmation unless force is
// set, and purges them.
func cleanup(ctx context.Context, in io.Reader, out io.Writer, svc purger, days int, force bool) error {
	n, err := svc.Count(ctx, days)
	if err != nil {
		return err
	}
	if n == 0 {
		_, _ = fmt.Fprintf(out, "no articles older than %d days\n", days)
		return nil
	}
	_, _ = fmt.Fprintf(out, "%d articles older than %d days will be deleted\n", n, days)
	if !force && !confirm(in, out, "continue?") {
		_, _ = fmt.Fprintln(out, "aborted")
		return nil
	}
	deleted, err := svc.Purge(ctx, days)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(out, "deleted %d articles\n", deleted)
	return nil
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	_, _ = fmt.Fprintf(out, "%s [y/N] ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
