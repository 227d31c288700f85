package worker

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"news-aggregator/internal/pkg/config"
)

// WorkerMetrics adds scheduled-job metrics to the worker config metrics.
//
//	worker_cron_job_runs_total{job,status}
//	worker_cron_job_duration_seconds{job}
//	worker_cron_job_items_total{job}       sources enqueued or articles purged
//	worker_cron_job_last_success_timestamp{job}
type WorkerMetrics struct {
	*config.ConfigMetrics

	CronJobRunsTotal            *prometheus.CounterVec
	CronJobDurationSeconds      *prometheus.HistogramVec
	CronJobItemsTotal           *prometheus.CounterVec
	CronJobLastSuccessTimestamp *prometheus.GaugeVec
}

// NewWorkerMetrics registers on reg, or on the default registry when nil.
func NewWorkerMetrics(reg prometheus.Registerer) *WorkerMetrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &WorkerMetrics{
		ConfigMetrics: config.NewConfigMetrics("worker", reg),

		CronJobRunsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_runs_total",
			Help: "Total number of scheduled job runs by job and status",
		}, []string{"job", "status"}),

		CronJobDurationSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "worker_cron_job_duration_seconds",
			Help:    "Duration of scheduled job runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300},
		}, []string{"job"}),

		CronJobItemsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "worker_cron_job_items_total",
			Help: "Items handled by scheduled jobs",
		}, []string{"job"}),

		CronJobLastSuccessTimestamp: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "worker_cron_job_last_success_timestamp",
			Help: "Unix timestamp of the last successful run per job",
		}, []string{"job"}),
	}
}

func (m *WorkerMetrics) RecordJobRun(job, status string) {
	m.CronJobRunsTotal.WithLabelValues(job, status).Inc()
}

func (m *WorkerMetrics) RecordJobDuration(job string, seconds float64) {
	m.CronJobDurationSeconds.WithLabelValues(job).Observe(seconds)
}

func (m *WorkerMetrics) RecordItems(job string, n int) {
	m.CronJobItemsTotal.WithLabelValues(job).Add(float64(n))
}

func (m *WorkerMetrics) RecordLastSuccess(job string) {
	m.CronJobLastSuccessTimestamp.WithLabelValues(job).SetToCurrentTime()
}

// RegisterQueueDepth exposes worker_job_queue_depth, read from depth on
// every scrape. Only the in-process queue has a depth to report.
func RegisterQueueDepth(reg prometheus.Registerer, depth func() int) prometheus.GaugeFunc {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return promauto.With(reg).NewGaugeFunc(prometheus.GaugeOpts{
		Name: "worker_job_queue_depth",
		Help: "Jobs buffered in the in-process queue",
	}, func() float64 { return float64(depth()) })
}
