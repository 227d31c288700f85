package http

import (
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/common/pagination"
	harticle "news-aggregator/internal/handler/http/article"
	hauth "news-aggregator/internal/handler/http/auth"
	hcategory "news-aggregator/internal/handler/http/category"
	hpreference "news-aggregator/internal/handler/http/preference"
	"news-aggregator/internal/handler/http/requestid"
	hsource "news-aggregator/internal/handler/http/source"
	"news-aggregator/internal/observability/tracing"
	"news-aggregator/pkg/security/csp"
)

const (
	defaultMaxBodyBytes   = 1 << 20
	defaultRequestTimeout = 30 * time.Second
)

// RouterDeps are the services and settings the API router is built from.
type RouterDeps struct {
	Logger      *slog.Logger
	Version     string
	DB          Pinger
	Auth        hauth.Service
	Articles    harticle.Service
	Categories  hcategory.Service
	Sources     hsource.Service
	Preferences hpreference.Service
	Pagination  pagination.Config
	CORS        CORSConfig
	RateLimiter *RateLimiter // nil disables rate limiting

	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewRouter registers every route and wraps the mux in the middleware chain:
// CORS, security headers, request id, tracing, logging, recover, metrics,
// rate limit, body limit, timeout.
func NewRouter(d RouterDeps) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("GET /health", &HealthHandler{DB: d.DB, Version: d.Version})
	mux.Handle("GET /metrics", MetricsHandler())

	hauth.Register(mux, d.Auth)
	harticle.Register(mux, d.Articles, d.Pagination, d.Auth, d.Logger)
	hcategory.Register(mux, d.Categories)
	hsource.Register(mux, d.Sources)
	hpreference.Register(mux, d.Preferences, d.Auth)

	maxBody := d.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	mws := []Middleware{
		CORS(d.CORS, d.Logger),
		SecurityHeaders(csp.APIPolicy()),
		requestid.Middleware,
		tracing.Middleware,
		Logging(d.Logger),
		Recover(d.Logger),
		MetricsMiddleware,
	}
	if d.RateLimiter != nil {
		mws = append(mws, d.RateLimiter.Limit)
	}
	mws = append(mws, LimitRequestBody(maxBody), Timeout(timeout))
	return Chain(mux, mws...)
}
