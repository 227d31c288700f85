package http

import (
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	pkgconfig "news-aggregator/pkg/config"
)

// CORSConfig is the cross-origin policy for browser clients.
type CORSConfig struct {
	AllowedOrigins []string // "*" allows any origin
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds
}

// DefaultCORSConfig allows local frontends only.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"http://localhost:3000"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", "X-Request-ID"},
		MaxAge:         86400,
	}
}

// LoadCORSConfig reads CORS_ALLOWED_ORIGINS, CORS_ALLOWED_METHODS,
// CORS_ALLOWED_HEADERS (comma separated) and CORS_MAX_AGE.
func LoadCORSConfig() CORSConfig {
	cfg := DefaultCORSConfig()
	cfg.AllowedOrigins = pkgconfig.GetEnvStringList("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.AllowedMethods = pkgconfig.GetEnvStringList("CORS_ALLOWED_METHODS", cfg.AllowedMethods)
	cfg.AllowedHeaders = pkgconfig.GetEnvStringList("CORS_ALLOWED_HEADERS", cfg.AllowedHeaders)
	cfg.MaxAge = pkgconfig.GetEnvInt("CORS_MAX_AGE", cfg.MaxAge)
	return cfg
}

func (c CORSConfig) allows(origin string) bool {
	return slices.Contains(c.AllowedOrigins, "*") || slices.Contains(c.AllowedOrigins, origin)
}

// CORS echoes allowed origins and answers preflight requests with 204.
// Disallowed origins get no CORS headers and the browser blocks the response.
func CORS(cfg CORSConfig, logger *slog.Logger) Middleware {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}
			if !cfg.allows(origin) {
				logger.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", methods)
				w.Header().Set("Access-Control-Allow-Headers", headers)
				w.Header().Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
