package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"news-aggregator/internal/common/pagination"
	"news-aggregator/internal/config"
	hhttp "news-aggregator/internal/handler/http"
	pgRepo "news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/infra/db"
	"news-aggregator/internal/observability/logging"
	"news-aggregator/internal/observability/tracing"
	authservice "news-aggregator/internal/service/auth"
	artUC "news-aggregator/internal/usecase/article"
	catUC "news-aggregator/internal/usecase/category"
	prefUC "news-aggregator/internal/usecase/preference"
	srcUC "news-aggregator/internal/usecase/source"
	pkgconfig "news-aggregator/pkg/config"
)

const minJWTSecretLength = 32

func main() {
	_ = godotenv.Load()
	logger := initLogger()

	cfg, err := config.LoadNewsConfig(os.Getenv("NEWS_CONFIG_FILE"))
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	secret := validateJWTSecret(logger, cfg.Auth.JWTSecretEnv)

	database := initDatabase(logger)
	defer func() {
		if err := database.Close(); err != nil {
			logger.Error("failed to close database", slog.Any("error", err))
		}
	}()

	shutdownTracing := tracing.Init(pkgconfig.GetEnvBool("OTEL_ENABLED", false))
	defer func() {
		if err := shutdownTracing(context.Background()); err != nil {
			logger.Warn("tracer shutdown failed", slog.Any("error", err))
		}
	}()

	version := pkgconfig.GetEnvString("VERSION", "dev")
	handler := setupServer(logger, database, cfg, secret, version)
	runServer(logger, handler, version)
}

// initLogger installs the JSON logger at LOG_LEVEL as the default.
func initLogger() *slog.Logger {
	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
	slog.SetDefault(logger)
	return logger
}

// validateJWTSecret reads the signing secret from envKey and exits when it
// is missing or shorter than 256 bits.
func validateJWTSecret(logger *slog.Logger, envKey string) []byte {
	secret := os.Getenv(envKey)
	if secret == "" {
		logger.Error("JWT secret must be set", slog.String("env", envKey))
		os.Exit(1)
	}
	// セキュリティ: 最小32文字（256ビット）を強制
	if len(secret) < minJWTSecretLength {
		logger.Error("JWT secret must be at least 32 characters", slog.String("env", envKey))
		os.Exit(1)
	}
	return []byte(secret)
}

// initDatabase opens the database connection and applies the schema.
func initDatabase(logger *slog.Logger) *sql.DB {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	database, err := db.Open(ctx)
	if err != nil {
		logger.Error("failed to open database", slog.Any("error", err))
		os.Exit(1)
	}
	if err := db.MigrateUp(database); err != nil {
		logger.Error("failed to migrate database", slog.Any("error", err))
		os.Exit(1)
	}
	return database
}

// setupServer wires repositories, services and the router.
func setupServer(logger *slog.Logger, database *sql.DB, cfg *config.NewsConfig, secret []byte, version string) http.Handler {
	articles := pgRepo.NewArticleRepo(database)
	sources := pgRepo.NewSourceRepo(database)
	categories := pgRepo.NewCategoryRepo(database)
	prefs := pgRepo.NewPreferenceRepo(database)
	interactions := pgRepo.NewInteractionRepo(database)
	users := pgRepo.NewUserRepo(database)

	authSvc, err := authservice.NewService(users, prefs, users, secret, cfg.Auth.TokenTTL())
	if err != nil {
		logger.Error("failed to create auth service", slog.Any("error", err))
		os.Exit(1)
	}

	rlCfg, err := pkgconfig.LoadRateLimitConfig()
	if err != nil {
		logger.Warn("invalid rate limit configuration, using defaults", slog.Any("error", err))
	}
	var limiter *hhttp.RateLimiter
	if rlCfg.Enabled {
		limiter = hhttp.NewRateLimiter(rlCfg)
		logger.Info("rate limiting enabled",
			slog.Int("requests_per_minute", rlCfg.RequestsPerMinute),
			slog.Int("burst", rlCfg.Burst),
			slog.Bool("trust_proxy_headers", rlCfg.TrustProxyHeaders))
	} else {
		logger.Warn("rate limiting is DISABLED - not recommended for production")
	}

	corsCfg := hhttp.LoadCORSConfig()
	logger.Info("CORS enabled", slog.Any("allowed_origins", corsCfg.AllowedOrigins))

	return hhttp.NewRouter(hhttp.RouterDeps{
		Logger:  logger,
		Version: version,
		DB:      database,
		Auth:    authSvc,
		Articles: &artUC.Service{
			Articles:     articles,
			Interactions: interactions,
			Preferences:  prefs,
		},
		Categories:     &catUC.Service{Repo: categories},
		Sources:        &srcUC.Service{Repo: sources},
		Preferences:    &prefUC.Service{Preferences: prefs, Sources: sources, Categories: categories},
		Pagination:     pagination.LoadFromEnv(),
		CORS:           corsCfg,
		RateLimiter:    limiter,
		MaxBodyBytes:   int64(pkgconfig.GetEnvInt("API_MAX_BODY_BYTES", 1<<20)),
		RequestTimeout: pkgconfig.GetEnvDuration("API_REQUEST_TIMEOUT", 30*time.Second),
	})
}

// runServer serves until SIGINT/SIGTERM and then drains in-flight requests.
func runServer(logger *slog.Logger, handler http.Handler, version string) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	addr := pkgconfig.GetEnvString("API_ADDR", ":8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
