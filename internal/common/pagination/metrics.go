package pagination

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts paginated requests.
	// Labels: endpoint, status (HTTP status code), page_range (1-10, 11-50, 51-100, 100+)
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_api_pagination_requests_total",
			Help: "Total number of paginated API requests",
		},
		[]string{"endpoint", "status", "page_range"},
	)

	// ErrorsTotal counts pagination errors by type (validation, database).
	ErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "news_api_pagination_errors_total",
			Help: "Total number of pagination errors",
		},
		[]string{"endpoint", "type"},
	)
)

// RecordRequest records a paginated request.
func RecordRequest(endpoint string, statusCode int, page int) {
	RequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode), pageRangeBucket(page)).Inc()
}

// RecordError records a pagination error.
func RecordError(endpoint, errorType string) {
	ErrorsTotal.WithLabelValues(endpoint, errorType).Inc()
}

func pageRangeBucket(page int) string {
	switch {
	case page <= 10:
		return "1-10"
	case page <= 50:
		return "11-50"
	case page <= 100:
		return "51-100"
	default:
		return "100+"
	}
}
