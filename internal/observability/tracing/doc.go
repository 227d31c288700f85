// Package tracing integrates OpenTelemetry: provider setup, span helpers for
// ingestion and post-processing runs, and an HTTP server middleware.
package tracing
