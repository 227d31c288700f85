// Package logging wraps log/slog with the JSON logger used by every binary
// and helpers that attach request and source identity to records.
//
//	logger := logging.NewLogger(os.Stdout, os.Getenv("LOG_LEVEL"))
//	slog.SetDefault(logger)
//
//	logging.WithSource(slog.Default(), src).Warn("provider request failed")
package logging
