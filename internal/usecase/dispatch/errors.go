package dispatch

import "errors"

var (
	// ErrSourceNotFound is returned when no active source matches.
	ErrSourceNotFound = errors.New("source not found")
	// ErrUnknownJobKind is returned for a job kind without a handler.
	ErrUnknownJobKind = errors.New("unknown job kind")
	// ErrSourceBusy is returned when another run holds the source lease.
	ErrSourceBusy = errors.New("source run already in progress")
)
