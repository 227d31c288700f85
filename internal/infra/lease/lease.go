// Package lease provides the per-source run lease used by the scrape job
// handler: a Redis-backed locker and a no-op fallback.
package lease

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
const releaseScript = `if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0`

// RedisLocker grants leases with SET NX PX. A lease expires on its own after
// the TTL, so a crashed worker never blocks a source for longer than one run.
type RedisLocker struct {
	client   redis.Cmdable
	NewToken func() string
}

func NewRedisLocker(client redis.Cmdable) *RedisLocker {
	return &RedisLocker{client: client, NewToken: uuid.NewString}
}

// Connect opens a client for addr and pings it.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return rdb, nil
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, ttl time.Duration) (string, bool, error) {
	token := l.NewToken()
	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("Acquire %s: %w", key, err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

// Release frees the lease if it is still ours. Releasing an expired or
// foreign lease is not an error.
func (l *RedisLocker) Release(ctx context.Context, key, token string) error {
	err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err()
	if err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("Release %s: %w", key, err)
	}
	return nil
}

// NoopLocker always grants the lease. It is used when Redis is not
// configured and only one worker runs.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, string, time.Duration) (string, bool, error) {
	return "", true, nil
}

func (NoopLocker) Release(context.Context, string, string) error { return nil }
