package respond

import (
	"regexp"
)

var (
	// NewsAPI は apiKey、Guardian は api-key をクエリに載せる
	queryKeyPattern = regexp.MustCompile(`(?i)(api[-_]?key=)[^&\s"]+`)

	bearerPattern = regexp.MustCompile(`(?i)(bearer\s+)[A-Za-z0-9\-_.]+`)
	jwtPattern    = regexp.MustCompile(`eyJ[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+\.[A-Za-z0-9\-_]+`)

	// DSN 内のパスワード
	dbPasswordPattern = regexp.MustCompile(`://([^:/\s]+):([^@\s]+)@`)
)

// SanitizeError returns the error text with credentials masked.
func SanitizeError(err error) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	msg = queryKeyPattern.ReplaceAllString(msg, "${1}****")
	msg = bearerPattern.ReplaceAllString(msg, "${1}****")
	msg = jwtPattern.ReplaceAllString(msg, "****")
	msg = dbPasswordPattern.ReplaceAllString(msg, "://$1:****@")
	return msg
}
