// Package auth serves the account endpoints and provides the bearer-token
// middleware that puts the caller's identity on the request context.
package auth

import (
	"context"

	authsvc "news-aggregator/internal/service/auth"
)

type ctxKey struct{}

// WithClaims returns ctx carrying the authenticated caller.
func WithClaims(ctx context.Context, c *authsvc.Claims) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// ClaimsFromContext returns the caller's claims, or nil for anonymous requests.
func ClaimsFromContext(ctx context.Context) *authsvc.Claims {
	c, _ := ctx.Value(ctxKey{}).(*authsvc.Claims)
	return c
}

// UserIDFromContext returns the caller's user id, or 0 for anonymous requests.
func UserIDFromContext(ctx context.Context) int64 {
	if c := ClaimsFromContext(ctx); c != nil {
		return c.UserID
	}
	return 0
}
