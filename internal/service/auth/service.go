// Package auth implements account registration, login and bearer-token
// authentication for the read API. It is independent of net/http so the
// same service backs the HTTP handlers and the CLI.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/repository"
)

// RegisterInput is the payload accepted by Register.
type RegisterInput struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
}

// Service handles authentication business logic.
type Service struct {
	users   repository.UserRepository
	prefs   repository.PreferenceRepository
	revoked repository.RevokedTokenRepository

	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

// NewService creates an authentication service signing HS256 tokens with secret.
func NewService(
	users repository.UserRepository,
	prefs repository.PreferenceRepository,
	revoked repository.RevokedTokenRepository,
	secret []byte,
	ttl time.Duration,
) (*Service, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Service{
		users:   users,
		prefs:   prefs,
		revoked: revoked,
		secret:  secret,
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}, nil
}

// Register creates an active account with default preferences and returns it with a token.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.User, string, error) {
	email := normalizeEmail(in.Email)
	if err := entity.ValidateRegistration(in.Name, email, in.Password, in.PasswordConfirmation); err != nil {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &entity.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	if err := s.prefs.Upsert(ctx, entity.DefaultPreference(user.ID)); err != nil {
		// preferences are recreated on first read
		slog.WarnContext(ctx, "failed to create default preferences",
			slog.Int64("user_id", user.ID),
			slog.Any("error", err))
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks the credentials, stamps last_login_at and returns a fresh token.
func (s *Service) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, "", fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if !user.Active {
		return nil, "", ErrInactiveUser
	}

	now := s.now()
	if err := s.users.TouchLogin(ctx, user.ID, now); err != nil {
		return nil, "", fmt.Errorf("touch login: %w", err)
	}
	user.LastLoginAt = &now

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate validates a bearer token and rejects revoked ones.
func (s *Service) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, err
	}
	revoked, err := s.revoked.IsRevoked(ctx, claims.TokenID)
	if err != nil {
		return nil, fmt.Errorf("check revocation: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Logout revokes the token until its natural expiry.
func (s *Service) Logout(ctx context.Context, claims *Claims) error {
	if err := s.revoked.Revoke(ctx, claims.TokenID, claims.ExpiresAt); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

// Me returns the authenticated user.
func (s *Service) Me(ctx context.Context, userID int64) (*entity.User, error) {
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
