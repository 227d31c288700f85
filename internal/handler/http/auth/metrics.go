package auth

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// authRequestsTotal counts account operations by action and result.
	authRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_requests_total",
			Help: "Total account requests by action and result",
		},
		[]string{"action", "result"}, // result: success | failure | error
	)

	authDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "auth_duration_seconds",
			Help:    "Account request duration by action",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
		[]string{"action"},
	)
)

func recordAuth(action, result string, start time.Time) {
	authRequestsTotal.WithLabelValues(action, result).Inc()
	authDuration.WithLabelValues(action).Observe(time.Since(start).Seconds())
}
