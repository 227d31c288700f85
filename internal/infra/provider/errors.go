package provider

import (
	"errors"
	"fmt"

	"news-aggregator/internal/resilience/retry"
	"news-aggregator/internal/usecase/ingest"
)

var (
	// ErrMissingAPIKey is returned when a keyed provider has no key configured.
	ErrMissingAPIKey = errors.New("provider api key is not configured")
	// ErrQuotaExhausted is returned when the provider's daily request budget is spent.
	ErrQuotaExhausted = errors.New("provider daily quota exhausted")
	// ErrMissingFeedURL is returned when an RSS source has no feed URL.
	ErrMissingFeedURL = errors.New("source has no feed url")
)

// maxErrorBody bounds the response body kept on a ProviderError.
const maxErrorBody = 512

// ProviderError is a failed provider request: either a non-2xx response
// (StatusCode and Body set) or a transport failure (Err set).
// It matches ingest.ErrProviderRequestFailed, and *retry.HTTPError when a
// status code is present.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed: HTTP %d: %s", e.Provider, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() []error {
	errs := []error{ingest.ErrProviderRequestFailed}
	if e.StatusCode != 0 {
		errs = append(errs, &retry.HTTPError{StatusCode: e.StatusCode, Message: e.Body})
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		return string(b[:maxErrorBody])
	}
	return string(b)
}
