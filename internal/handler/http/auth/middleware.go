package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"news-aggregator/internal/handler/http/respond"
	authsvc "news-aggregator/internal/service/auth"
)

// Authenticator validates bearer tokens.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*authsvc.Claims, error)
}

const unauthenticated = "Unauthenticated."

func bearerToken(r *http.Request) (string, bool) {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(h[len(prefix):]), true
}

// Required rejects requests without a valid bearer token with 401.
func Required(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				respond.Message(w, http.StatusUnauthorized, unauthenticated)
				return
			}
			claims, err := a.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, authsvc.ErrInvalidToken):
				respond.Message(w, http.StatusUnauthorized, unauthenticated)
				return
			case err != nil:
				respond.SafeError(w, http.StatusInternalServerError, err)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// Optional attaches the caller when a valid token is present and otherwise
// serves the request anonymously.
func Optional(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			claims, err := a.Authenticate(r.Context(), token)
			if err != nil {
				if !errors.Is(err, authsvc.ErrInvalidToken) {
					slog.WarnContext(r.Context(), "optional authentication failed", slog.Any("error", err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}
