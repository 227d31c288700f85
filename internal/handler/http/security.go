package http

import (
	"net/http"

	"news-aggregator/pkg/security/csp"
)

// SecurityHeaders sets the response headers every JSON endpoint carries.
func SecurityHeaders(policy *csp.Policy) Middleware {
	name, value := policy.HeaderName(), policy.Build()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")
			if value != "" {
				h.Set(name, value)
			}
			next.ServeHTTP(w, r)
		})
	}
}
