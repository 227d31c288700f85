package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPoolConfig(t *testing.T) {
	cfg := DefaultPoolConfig()

	assert.Equal(t, 25, cfg.MaxOpenConns)
	assert.Equal(t, 10, cfg.MaxIdleConns)
	assert.Equal(t, time.Hour, cfg.ConnMaxLifetime)
	assert.Equal(t, 30*time.Minute, cfg.ConnMaxIdleTime)
}

func TestPoolConfigFromEnv(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want PoolConfig
	}{
		{
			name: "defaults",
			env:  map[string]string{},
			want: DefaultPoolConfig(),
		},
		{
			name: "custom values",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":     "50",
				"DB_MAX_IDLE_CONNS":     "5",
				"DB_CONN_MAX_LIFETIME":  "2h",
				"DB_CONN_MAX_IDLE_TIME": "1m",
			},
			want: PoolConfig{MaxOpenConns: 50, MaxIdleConns: 5, ConnMaxLifetime: 2 * time.Hour, ConnMaxIdleTime: time.Minute},
		},
		{
			name: "invalid and non-positive fall back",
			env: map[string]string{
				"DB_MAX_OPEN_CONNS":    "abc",
				"DB_MAX_IDLE_CONNS":    "-3",
				"DB_CONN_MAX_LIFETIME": "0s",
			},
			want: DefaultPoolConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, k := range []string{"DB_MAX_OPEN_CONNS", "DB_MAX_IDLE_CONNS", "DB_CONN_MAX_LIFETIME", "DB_CONN_MAX_IDLE_TIME"} {
				t.Setenv(k, tt.env[k])
			}
			assert.Equal(t, tt.want, PoolConfigFromEnv())
		})
	}
}

func TestOpen_MissingDSN(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	db, err := Open(context.Background())
	assert.Nil(t, db)
	assert.True(t, errors.Is(err, ErrMissingDSN))
}

func TestOpen_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("short mode")
	}
	db, err := Open(context.Background())
	if errors.Is(err, ErrMissingDSN) {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	assert.NoError(t, db.PingContext(context.Background()))
}
