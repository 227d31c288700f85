// Package ingest runs one ingestion pass for a news source: fetch from the
// provider, skip duplicates and invalid records, categorize, normalize and
// persist, then record the run on the source.
package ingest

import "errors"

var (
	// ErrProviderRequestFailed wraps every non-2xx response or transport
	// failure from a provider. The run is aborted and the source untouched.
	ErrProviderRequestFailed = errors.New("provider request failed")

	// ErrUnknownProvider means no provider is registered for the source.
	ErrUnknownProvider = errors.New("no provider registered for source")

	// ErrGeneralCategoryMissing is a configuration error raised at startup.
	ErrGeneralCategoryMissing = errors.New(`fallback category "general" is missing`)
)
