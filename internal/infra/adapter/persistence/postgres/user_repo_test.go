package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"

	"news-aggregator/internal/domain/entity"
	"news-aggregator/internal/infra/adapter/persistence/postgres"
	"news-aggregator/internal/repository"
)

func TestUserRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (name, email, password_hash, is_active)")).
		WithArgs("Ada", "ada@example.com", "hash", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(3), now))

	u := &entity.User{Name: "Ada", Email: "ada@example.com", PasswordHash: "hash", Active: true}
	if err := postgres.NewUserRepo(db).Create(context.Background(), u); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if u.ID != 3 {
		t.Fatalf("Create did not set ID")
	}
}

func TestUserRepo_Create_DuplicateEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("INSERT INTO users").WillReturnError(&pgconn.PgError{Code: "23505"})

	err := postgres.NewUserRepo(db).Create(context.Background(), &entity.User{Email: "ada@example.com"})
	if !errors.Is(err, repository.ErrDuplicateEmail) {
		t.Fatalf("err=%v, want ErrDuplicateEmail", err)
	}
}

func TestUserRepo_GetByEmail(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "is_active", "last_login_at", "created_at"}).
			AddRow(int64(3), "Ada", "ada@example.com", "hash", true, nil, now))

	u, err := postgres.NewUserRepo(db).GetByEmail(context.Background(), "ada@example.com")
	if err != nil || u == nil || u.ID != 3 || u.LastLoginAt != nil {
		t.Fatalf("GetByEmail u=%+v err=%v", u, err)
	}
}

func TestUserRepo_RevokedTokens(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	exp := time.Now().Add(time.Hour)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO revoked_tokens")).
		WithArgs("jti-1", exp).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectQuery(regexp.QuoteMeta("FROM revoked_tokens WHERE token_id = $1")).
		WithArgs("jti-1").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	repo := postgres.NewUserRepo(db)
	if err := repo.Revoke(context.Background(), "jti-1", exp); err != nil {
		t.Fatalf("Revoke err=%v", err)
	}
	revoked, err := repo.IsRevoked(context.Background(), "jti-1")
	if err != nil || !revoked {
		t.Fatalf("IsRevoked=%v err=%v", revoked, err)
	}
}
