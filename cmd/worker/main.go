package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"news-aggregator/internal/config"
	"news-aggregator/internal/handler/http/respond"
	"news-aggregator/internal/infra/db"
	"news-aggregator/internal/infra/lease"
	"news-aggregator/internal/infra/queue"
	workerPkg "news-aggregator/internal/infra/worker"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/internal/pipeline"
	"news-aggregator/internal/usecase/dispatch"
	pkgconfig "news-aggregator/pkg/config"
)

// jobQueue is a dispatch.Queue that also consumes its own jobs.
type jobQueue interface {
	dispatch.Queue
	Run(ctx context.Context, exec *dispatch.Executor) error
}

func waitForMigrations(logger *slog.Logger, db *sql.DB) {
	const probe = "SELECT 1 FROM news_sources LIMIT 1"
	for i := 0; i < 10; i++ {
		if _, err := db.Exec(probe); err == nil {
			return
		}
		logger.Info("waiting for migrations, retrying in 3s", slog.Int("attempt", i+1))
		time.Sleep(3 * time.Second)
	}
	logger.Error("migrations did not complete in time")
	os.Exit(1)
}

func main() {
	_ = godotenv.Load()
	logger := initLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	newsCfg, err := config.LoadNewsConfig(os.Getenv("NEWS_CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	database := initDatabase(ctx, logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	shutdownTracing := tracing.Init(pkgconfig.GetEnvBool("OTEL_ENABLED", false))
	defer func() { _ = shutdownTracing(context.Background()) }()

	workerMetrics := workerPkg.NewWorkerMetrics(prometheus.DefaultRegisterer)
	workerCfg := workerPkg.LoadConfigFromEnv(logger, workerMetrics)
	logger.Info("worker configuration loaded",
		slog.String("dispatch_schedule", workerCfg.DispatchSchedule),
		slog.String("retention_schedule", workerCfg.RetentionSchedule),
		slog.String("timezone", workerCfg.Timezone),
		slog.Int("workers", newsCfg.Scraping.Workers),
		slog.Int("health_port", workerCfg.HealthPort))

	locker, closeLocker := setupLocker(ctx, logger)
	defer closeLocker()

	q, checks, closeQueue := setupQueue(logger, newsCfg)
	defer closeQueue()
	if lq, ok := q.(interface{ Len() int }); ok {
		workerPkg.RegisterQueueDepth(prometheus.DefaultRegisterer, lq.Len)
	}
	checks["database"] = database.PingContext

	p, err := pipeline.New(ctx, newsCfg, pipeline.PostgresDeps(database, q, locker))
	if err != nil {
		logger.Error("failed to build pipeline", slog.Any("error", err))
		os.Exit(1)
	}

	scheduler := workerPkg.NewScheduler(workerCfg.Location(), logger, workerMetrics)
	if err := scheduler.Add("dispatch", workerCfg.DispatchSchedule, workerCfg.DispatchTimeout, p.Dispatcher.DispatchDue); err != nil {
		logger.Error("failed to schedule dispatch", slog.Any("error", err))
		os.Exit(1)
	}
	if workerCfg.RetentionEnabled() {
		days := newsCfg.Scraping.RetentionDays
		err := scheduler.Add("retention", workerCfg.RetentionSchedule, workerCfg.DispatchTimeout, func(ctx context.Context) (int, error) {
			n, err := p.Retention.Purge(ctx, days)
			return int(n), err
		})
		if err != nil {
			logger.Error("failed to schedule retention", slog.Any("error", err))
			os.Exit(1)
		}
	}

	healthServer := workerPkg.NewHealthServer(fmt.Sprintf(":%d", workerCfg.HealthPort), logger, checks)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := healthServer.Start(gctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return q.Run(gctx, p.Executor)
	})
	g.Go(func() error {
		scheduler.Run(gctx)
		return nil
	})

	healthServer.SetReady(true)
	logger.Info("worker started")

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		// 機密情報をマスクしてログ出力
		logger.Error("worker stopped with error", slog.String("error", respond.SanitizeError(err)))
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

// initLogger installs the JSON logger at LOG_LEVEL as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	return logger
}

// initDatabase opens the database and waits until the API has migrated it.
func initDatabase(ctx context.Context, logger *slog.Logger) *sql.DB {
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	waitForMigrations(logger, database)
	return database
}

// setupLocker connects to REDIS_ADDR for source leases, or falls back to a
// no-op locker for single-worker deployments.
func setupLocker(ctx context.Context, logger *slog.Logger) (dispatch.Locker, func()) {
	addr := pkgconfig.GetEnvString("REDIS_ADDR", "")
	if addr == "" {
		logger.Info("REDIS_ADDR not set, source leases disabled")
		return lease.NoopLocker{}, func() {}
	}
	client, err := lease.Connect(ctx, addr, os.Getenv("REDIS_PASSWORD"), pkgconfig.GetEnvInt("REDIS_DB", 0))
	if err != nil {
		logger.Error("failed to connect to redis", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("source leases backed by redis", slog.String("addr", addr))
	return lease.NewRedisLocker(client), closer(logger, "redis", client)
}

// setupQueue uses JetStream when NATS_URL is set and an in-process queue
// otherwise. The returned checks feed the readiness probe.
func setupQueue(logger *slog.Logger, cfg *config.NewsConfig) (jobQueue, map[string]workerPkg.ReadinessCheck, func()) {
	checks := map[string]workerPkg.ReadinessCheck{}
	workers := cfg.Scraping.Workers

	url := pkgconfig.GetEnvString("NATS_URL", "")
	if url == "" {
		logger.Info("NATS_URL not set, using in-process job queue", slog.Int("workers", workers))
		return queue.NewLocalQueue(workers, queue.DefaultBuffer), checks, func() {}
	}

	nc, err := nats.Connect(url, nats.Name("news-worker"), nats.MaxReconnects(-1))
	if err != nil {
		logger.Error("failed to connect to nats", slog.Any("error", err))
		os.Exit(1)
	}
	q, err := queue.NewNATSQueue(nc, dispatch.PoliciesFromConfig(cfg.Scraping), workers)
	if err != nil {
		logger.Error("failed to set up job stream", slog.Any("error", err))
		os.Exit(1)
	}
	checks["nats"] = func(context.Context) error {
		if !nc.IsConnected() {
			return nats.ErrConnectionClosed
		}
		return nil
	}
	logger.Info("using NATS JetStream job queue", slog.String("stream", queue.StreamName))
	return q, checks, func() { nc.Close() }
}

func closer(logger *slog.Logger, name string, c *redis.Client) func() {
	return func() {
		if err := c.Close(); err != nil {
			logger.Warn("failed to close client", slog.String("client", name), slog.Any("error", err))
		}
	}
}
