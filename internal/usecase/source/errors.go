// Package source provides read use cases for configured news sources.
package source

import "errors"

// ErrSourceNotFound indicates that no active source has the requested slug.
var ErrSourceNotFound = errors.New("source not found")
