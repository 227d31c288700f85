// Package metrics holds the Prometheus collectors shared by the API, the
// worker and the CLI. Collectors are registered on the default registry via
// promauto and exposed on /metrics.
//
//	start := time.Now()
//	res, err := orchestrator.Run(ctx, src)
//	metrics.RecordIngestRun(src.Slug, metrics.RunSuccess, time.Since(start), res.Saved, res.Skipped, res.Errors)
package metrics
