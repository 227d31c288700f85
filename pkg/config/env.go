// Package config reads typed settings from the environment. Every getter
// is fail-open: an unset variable yields the default, and an unparsable one
// yields the default plus a warning log.
package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

func lookup(key string) (string, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	return v, v != ""
}

func warnInvalid(key, value string, def any, err error) {
	slog.Warn("invalid environment value, using default",
		slog.String("key", key),
		slog.String("value", value),
		slog.Any("default", def),
		slog.String("error", err.Error()))
}

// GetEnvString returns the trimmed value of key, or defaultValue when unset.
//
//	apiURL := GetEnvString("NEWSAPI_URL", "https://newsapi.org/v2")
func GetEnvString(key, defaultValue string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return defaultValue
}

// GetEnvInt parses key as a base-10 integer.
func GetEnvInt(key string, defaultValue int) int {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		warnInvalid(key, v, defaultValue, err)
		return defaultValue
	}
	return n
}

// GetEnvBool parses key with strconv.ParseBool ("1", "true", "false", ...).
func GetEnvBool(key string, defaultValue bool) bool {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		warnInvalid(key, v, defaultValue, err)
		return defaultValue
	}
	return b
}

// GetEnvDuration parses key with time.ParseDuration ("30s", "5m").
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		warnInvalid(key, v, defaultValue.String(), err)
		return defaultValue
	}
	return d
}

// GetEnvStringList splits key on commas, dropping empty items. An unset or
// all-empty value yields defaultValue.
func GetEnvStringList(key string, defaultValue []string) []string {
	v, ok := lookup(key)
	if !ok {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
