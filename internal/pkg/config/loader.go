// Package config provides fail-open environment loaders: an invalid value
// never aborts startup, it falls back to the default and reports a warning.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// ConfigLoadResult is the outcome of loading one setting.
//
//	result := LoadEnvDuration("SCRAPE_RUN_TIMEOUT", 5*time.Minute, ValidatePositiveDuration)
//	if result.FallbackApplied {
//	    logger.Warn("config fallback", slog.Any("warnings", result.Warnings))
//	}
//	timeout := result.Value.(time.Duration)
type ConfigLoadResult struct {
	Value           any
	Warnings        []string
	FallbackApplied bool
}

// load reads envKey, parses it and validates it. Unset or blank values yield
// the default without a warning.
func load[T any](envKey string, def T, parse func(string) (T, error), validate func(T) error) ConfigLoadResult {
	raw := strings.TrimSpace(os.Getenv(envKey))
	if raw == "" {
		return ConfigLoadResult{Value: def}
	}

	fallback := func(err error) ConfigLoadResult {
		return ConfigLoadResult{
			Value:           def,
			Warnings:        []string{fmt.Sprintf("Invalid %s='%s': %v, falling back to default '%v'", envKey, raw, err, def)},
			FallbackApplied: true,
		}
	}

	v, err := parse(raw)
	if err != nil {
		return fallback(err)
	}
	if validate != nil {
		if err := validate(v); err != nil {
			return fallback(err)
		}
	}
	return ConfigLoadResult{Value: v}
}

// LoadEnvWithFallback loads a string setting.
func LoadEnvWithFallback(envKey, defaultValue string, validator func(string) error) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (string, error) { return s, nil }, validator)
}

// LoadEnvDuration loads a Go duration string such as "90s" or "5m".
func LoadEnvDuration(envKey string, defaultValue time.Duration, validator func(time.Duration) error) ConfigLoadResult {
	return load(envKey, defaultValue, time.ParseDuration, validator)
}

// LoadEnvInt loads a base-10 integer.
func LoadEnvInt(envKey string, defaultValue int, validator func(int) error) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("invalid integer format")
		}
		return n, nil
	}, validator)
}

// LoadEnvBool accepts the strconv.ParseBool spellings.
func LoadEnvBool(envKey string, defaultValue bool) ConfigLoadResult {
	return load(envKey, defaultValue, func(s string) (bool, error) {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return false, fmt.Errorf("invalid boolean format, expected 'true' or 'false'")
		}
		return b, nil
	}, nil)
}
