// Package observability groups logging, metrics and tracing.
//
// Subpackages:
//   - logging: JSON slog logger and context helpers
//   - metrics: Prometheus collectors and recorders
//   - tracing: OpenTelemetry provider setup and HTTP middleware
package observability
