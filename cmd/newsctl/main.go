// Command newsctl runs ingestion, retention and schema tasks by hand.
//
//	newsctl scrape [--source=slug] [--all] [--sync]
//	newsctl cleanup [--days=30] [--force]
//	newsctl migrate [--down] [--force]
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"news-aggregator/internal/config"
	pgRepo "news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/infra/db"
	"news-aggregator/internal/infra/lease"
	"news-aggregator/internal/infra/queue"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/pipeline"
	"news-aggregator/internal/usecase/dispatch"
	"news-aggregator/internal/usecase/retention"
	pkgconfig "news-aggregator/pkg/config"
)

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: newsctl <command> [flags]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  scrape   [--source=slug] [--all] [--sync]   fetch articles from due or selected sources")
	fmt.Fprintln(os.Stderr, "  cleanup  [--days=N] [--force]               delete articles older than N days")
	fmt.Fprintln(os.Stderr, "  migrate  [--down] [--force]                apply schema and seed data, or drop it")
}

func main() {
	_ = godotenv.Load()
	slog.SetDefault(logging.NewLogger(os.Stderr, pkgconfig.GetEnvString("LOG_LEVEL", "warn")))

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var err error
	switch os.Args[1] {
	case "scrape":
		err = runScrape(ctx, os.Args[2:])
	case "cleanup":
		err = runCleanup(ctx, os.Args[2:])
	case "migrate":
		err = runMigrate(ctx, os.Args[2:])
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		usage()
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.NewsConfig, error) {
	return config.LoadNewsConfig(os.Getenv("NEWS_CONFIG_FILE"))
}

func openDB(ctx context.Context) (*sql.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return db.Open(connectCtx)
}

func runScrape(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("scrape", flag.ExitOnError)
	slug := fs.String("source", "", "scrape only the source with this slug")
	all := fs.Bool("all", false, "scrape every active source, due or not")
	sync := fs.Bool("sync", false, "run in-process even when NATS_URL is set")
	_ = fs.Parse(args)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	natsURL := pkgconfig.GetEnvString("NATS_URL", "")
	if natsURL != "" && !*sync {
		if *all {
			return fmt.Errorf("--all requires --sync when NATS_URL is set")
		}
		nc, err := nats.Connect(natsURL, nats.Name("newsctl"))
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer nc.Close()
		q, err := queue.NewNATSQueue(nc, dispatch.PoliciesFromConfig(cfg.Scraping), 1)
		if err != nil {
			return err
		}
		p, err := pipeline.New(ctx, cfg, pipeline.PostgresDeps(database, q, nil))
		if err != nil {
			return err
		}
		return scrapeAsync(ctx, os.Stdout, p.Dispatcher, *slug)
	}

	locker, closeLocker, err := openLocker(ctx)
	if err != nil {
		return err
	}
	defer closeLocker()

	q := queue.NewSyncQueue()
	deps := pipeline.PostgresDeps(database, q, locker)
	p, err := pipeline.New(ctx, cfg, deps)
	if err != nil {
		return err
	}
	sources, err := selectSources(ctx, deps.Sources, *slug, *all, time.Now())
	if err != nil {
		return err
	}
	scrapeErr := scrapeSync(ctx, os.Stdout, sources, p.Runner)

	// 新規記事の後処理ジョブをここで消化する
	failed, err := q.Drain(ctx, p.Executor)
	if err != nil {
		return err
	}
	if failed > 0 {
		fmt.Fprintf(os.Stdout, "%d post-processing jobs failed\n", failed)
	}
	return scrapeErr
}

// openLocker shares the worker's Redis leases when REDIS_ADDR is set, so a
// manual run never overlaps a worker run of the same source.
func openLocker(ctx context.Context) (dispatch.Locker, func(), error) {
	addr := pkgconfig.GetEnvString("REDIS_ADDR", "")
	if addr == "" {
		return lease.NoopLocker{}, func() {}, nil
	}
	client, err := lease.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), pkgconfig.GetEnvInt("REDIS_DB", 0))
	if err != nil {
		return nil, nil, err
	}
	return lease.NewRedisLocker(client), func() { _ = client.Close() }, nil
}

func runCleanup(ctx context.Context, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	fs := flag.NewFlagSet("cleanup", flag.ExitOnError)
	days := fs.Int("days", cfg.Scraping.RetentionDays, "retention window in days")
	force := fs.Bool("force", false, "delete without confirmation")
	_ = fs.Parse(args)

	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	svc := retention.NewService(pgRepo.NewArticleRepo(database))
	return cleanup(ctx, os.Stdin, os.Stdout, svc, *days, *force)
}

func runMigrate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	down := fs.Bool("down", false, "drop every table instead of applying the schema")
	force := fs.Bool("force", false, "drop without confirmation")
	_ = fs.Parse(args)

	database, err := openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()

	if *down {
		if !*force && !confirm(os.Stdin, os.Stdout, "Drop all tables and data?") {
			fmt.Fprintln(os.Stdout, "aborted")
			return nil
		}
		if err := db.MigrateDown(database); err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, "all tables dropped")
		return nil
	}
	if err := db.MigrateUp(database); err != nil {
		return err
	}
	fmt.Fprintln(os.Stdout, "schema and seed data applied")
	return nil
}
