// Package provider implements the news provider clients (NewsAPI, The
// Guardian, RSS) and the registry that binds sources to them.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"news-aggregator/internal/config"
	"news-aggregator/internal/observability/metrics"
	"news-aggregator/internal/resilience/circuitbreaker"
)

const (
	maxBodySize = 10 * 1024 * 1024 // 10MB
	// apiPageCap is the largest page size the upstream APIs accept.
	apiPageCap       = 100
	defaultUserAgent = "news-aggregator/1.0"
)

// client is the shared outbound path of every provider: one GET through a
// circuit breaker and a daily quota, never retried here.
type client struct {
	name      string
	http      *http.Client
	breaker   *circuitbreaker.CircuitBreaker
	limiter   *rate.Limiter
	userAgent string
}

func newClient(name string, cfg config.ProviderConfig, userAgent string) *client {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	return &client{
		name:      name,
		http:      &http.Client{Timeout: cfg.Timeout},
		breaker:   circuitbreaker.New(circuitbreaker.ProviderConfig(name)),
		limiter:   dailyLimiter(cfg.DailyQuota),
		userAgent: userAgent,
	}
}

// dailyLimiter spreads quota evenly over a day with an hour's worth of burst.
// A non-positive quota means unlimited.
func dailyLimiter(quota int) *rate.Limiter {
	if quota <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := quota / 24
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(24*time.Hour/time.Duration(quota)), burst)
}

// get issues the request and returns the body of a 2xx response.
func (c *client) get(ctx context.Context, url string) ([]byte, error) {
	if !c.limiter.Allow() {
		metrics.RecordProviderRejected(c.name, "quota")
		return nil, &ProviderError{Provider: c.name, Err: ErrQuotaExhausted}
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.do(ctx, url)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			metrics.RecordProviderRejected(c.name, "circuit_open")
			slog.Warn("provider circuit breaker open, request rejected",
				slog.String("provider", c.name),
				slog.String("state", c.breaker.State().String()))
			return nil, &ProviderError{Provider: c.name, Err: err}
		}
		return nil, err
	}
	return result.([]byte), nil
}

func (c *client) do(ctx context.Context, url string) ([]byte, error) {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Err: fmt.Errorf("create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/xml;q=0.9, */*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RecordProviderRequest(c.name, 0, time.Since(start))
		return nil, &ProviderError{Provider: c.name, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	metrics.RecordProviderRequest(c.name, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, &ProviderError{Provider: c.name, Err: fmt.Errorf("read body: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &ProviderError{Provider: c.name, StatusCode: resp.StatusCode, Body: truncateBody(body)}
	}
	return body, nil
}

// pageSize returns min(limit, configured cap, apiPageCap), at least 1.
func pageSize(limit, configured int) int {
	size := apiPageCap
	if configured > 0 && configured < size {
		size = configured
	}
	if limit > 0 && limit < size {
		size = limit
	}
	return size
}
