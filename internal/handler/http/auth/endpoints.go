package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/handler/http/requestid"
	"news-aggregator/internal/handler/http/respond"
	authsvc "news-aggregator/internal/service/auth"
)

// Service is the account service behind the endpoints.
type Service interface {
	Authenticator
	Register(ctx context.Context, in authsvc.RegisterInput) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Logout(ctx context.Context, claims *authsvc.Claims) error
	Me(ctx context.Context, userID int64) (*entity.User, error)
}

// Handler serves /auth/*.
type Handler struct {
	Svc Service
}

// Register mounts the account routes on mux.
func Register(mux *http.ServeMux, svc Service) {
	h := &Handler{Svc: svc}
	required := Required(svc)

	mux.HandleFunc("POST /auth/register", h.register)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.Handle("POST /auth/logout", required(http.HandlerFunc(h.logout)))
	mux.Handle("GET /auth/me", required(http.HandlerFunc(h.me)))
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	var req registerRequest
	if !respond.DecodeJSON(w, r, &req) {
		recordAuth("register", "failure", start)
		return
	}

	user, token, err := h.Svc.Register(r.Context(), authsvc.RegisterInput{
		Name:                 req.Name,
		Email:                req.Email,
		Password:             req.Password,
		PasswordConfirmation: req.PasswordConfirmation,
	})
	if err != nil {
		if errors.Is(err, authsvc.ErrEmailTaken) {
			err = &entity.ValidationError{Field: "email", Message: "The email has already been taken."}
		}
		recordAuth("register", resultOf(err), start)
		respond.Fail(w, err)
		return
	}

	slog.InfoContext(r.Context(), "user registered",
		slog.String("request_id", requestid.FromContext(r.Context())),
		slog.Int64("user_id", user.ID))
	recordAuth("register", "success", start)
	respond.JSON(w, http.StatusCreated, tokenResponse{
		Message: "User registered successfully",
		User:    NewUserDTO(user),
		Token:   token,
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	logger := slog.With(slog.String("request_id", requestid.FromContext(r.Context())))

	var req loginRequest
	if !respond.DecodeJSON(w, r, &req) {
		recordAuth("login", "failure", start)
		return
	}

	user, token, err := h.Svc.Login(r.Context(), req.Email, req.Password)
	switch {
	case errors.Is(err, authsvc.ErrInvalidCredentials):
		logger.Warn("login failed", slog.String("reason", "invalid_credentials"))
		recordAuth("login", "failure", start)
		respond.JSON(w, http.StatusUnprocessableEntity, respond.ValidationResponse{
			Message: "The provided credentials are incorrect.",
			Errors:  map[string][]string{"email": {"The provided credentials are incorrect."}},
		})
		return
	case errors.Is(err, authsvc.ErrInactiveUser):
		logger.Warn("login failed", slog.String("reason", "inactive"))
		recordAuth("login", "failure", start)
		respond.Message(w, http.StatusForbidden, "Account is deactivated")
		return
	case err != nil:
		recordAuth("login", "error", start)
		respond.Fail(w, err)
		return
	}

	logger.Info("login succeeded",
		slog.Int64("user_id", user.ID),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()))
	recordAuth("login", "success", start)
	respond.JSON(w, http.StatusOK, tokenResponse{
		Message: "Login successful",
		User:    NewUserDTO(user),
		Token:   token,
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.Svc.Logout(r.Context(), ClaimsFromContext(r.Context())); err != nil {
		recordAuth("logout", "error", start)
		respond.Fail(w, err)
		return
	}
	recordAuth("logout", "success", start)
	respond.Message(w, http.StatusOK, "Logged out successfully")
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	user, err := h.Svc.Me(r.Context(), UserIDFromContext(r.Context()))
	if errors.Is(err, authsvc.ErrUserNotFound) {
		respond.Message(w, http.StatusUnauthorized, unauthenticated)
		return
	}
	if err != nil {
		respond.Fail(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, userResponse{User: NewUserDTO(user)})
}

func resultOf(err error) string {
	if entity.IsValidationError(err) {
		return "failure"
	}
	return "error"
}
