package auth

import (
	"context"
	"time"

	"news-aggregator/internal/domain/entity"
	authsvc "news-aggregator/internal/service/auth"
)

type stubService struct {
	tokens  map[string]*authsvc.Claims
	users   map[int64]*entity.User
	authErr error

	registerErr error
	loginErr    error
	logoutErr   error
	loggedOut   []string
	gotInput    authsvc.RegisterInput
}

func newStubService() *stubService {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &stubService{
		tokens: map[string]*authsvc.Claims{
			"good-token": {UserID: 1, TokenID: "jti-1", ExpiresAt: created.Add(24 * time.Hour)},
		},
		users: map[int64]*entity.User{
			1: {ID: 1, Name: "Ada", Email: "ada@example.com", Active: true, CreatedAt: created},
		},
	}
}

func (s *stubService) Authenticate(_ context.Context, token string) (*authsvc.Claims, error) {
	if s.authErr != nil {
		return nil, s.authErr
	}
	c, ok := s.tokens[token]
	if !ok {
		return nil, authsvc.ErrInvalidToken
	}
	return c, nil
}

func (s *stubService) Register(_ context.Context, in authsvc.RegisterInput) (*entity.User, string, error) {
	s.gotInput = in
	if s.registerErr != nil {
		return nil, "", s.registerErr
	}
	return &entity.User{ID: 2, Name: in.Name, Email: in.Email, Active: true}, "new-token", nil
}

func (s *stubService) Login(_ context.Context, email, _ string) (*entity.User, string, error) {
	if s.loginErr != nil {
		return nil, "", s.loginErr
	}
	return s.users[1], "login-token", nil
}

func (s *stubService) Logout(_ context.Context, c *authsvc.Claims) error {
	if s.logoutErr != nil {
		return s.logoutErr
	}
	s.loggedOut = append(s.loggedOut, c.TokenID)
	return nil
}

func (s *stubService) Me(_ context.Context, id int64) (*entity.User, error) {
	u, ok := s.users[id]
	if !ok {
		return nil, authsvc.ErrUserNotFound
	}
	return u, nil
}
