package retry

import (
	"context"
	"errors"
	"fmt"
	"syscall"
	"testing"
	"time"
)

func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:    attempts,
		InitialDelay:   5 * time.Millisecond,
		MaxDelay:       20 * time.Millisecond,
		Multiplier:     2.0,
		JitterFraction: 0.1,
	}
}

/* ───────────────────────── 1. WithBackoff ───────────────────────── */

func TestWithBackoff(t *testing.T) {
	retryable := &HTTPError{StatusCode: 503, Message: "unavailable"}
	fatal := &HTTPError{StatusCode: 401, Message: "unauthorized"}

	tests := []struct {
		name         string
		results      []error
		wantErr      bool
		wantAttempts int
	}{
		{"first attempt succeeds", []error{nil}, false, 1},
		{"succeeds after retry", []error{retryable, retryable, nil}, false, 3},
		{"attempts exhausted", []error{retryable, retryable, retryable}, true, 3},
		{"non-retryable aborts", []error{fatal, nil}, true, 1},
		{"permanent aborts", []error{Permanent(retryable), nil}, true, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attempts := 0
			err := WithBackoff(context.Background(), fastConfig(3), func() error {
				e := tt.results[attempts]
				attempts++
				return e
			})
			if (err != nil) != tt.wantErr {
				t.Fatalf("err=%v, wantErr=%v", err, tt.wantErr)
			}
			if attempts != tt.wantAttempts {
				t.Fatalf("attempts=%d, want %d", attempts, tt.wantAttempts)
			}
		})
	}
}

func TestWithBackoff_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := fastConfig(10)
	cfg.InitialDelay = time.Second

	attempts := 0
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	err := WithBackoff(ctx, cfg, func() error {
		attempts++
		return syscall.ECONNRESET
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err=%v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Fatalf("attempts=%d, want 1", attempts)
	}
}

/* ───────────────────────── 2. IsRetryable ───────────────────────── */

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		retryable bool
	}{
		{"nil", nil, false},
		{"context canceled", context.Canceled, false},
		{"deadline exceeded", context.DeadlineExceeded, false},
		{"HTTP 500", &HTTPError{StatusCode: 500}, true},
		{"HTTP 503 wrapped", fmt.Errorf("fetch: %w", &HTTPError{StatusCode: 503}), true},
		{"HTTP 429", &HTTPError{StatusCode: 429}, true},
		{"HTTP 408", &HTTPError{StatusCode: 408}, true},
		{"HTTP 400", &HTTPError{StatusCode: 400}, false},
		{"HTTP 404", &HTTPError{StatusCode: 404}, false},
		{"ECONNREFUSED", syscall.ECONNREFUSED, true},
		{"ECONNRESET", syscall.ECONNRESET, true},
		{"ETIMEDOUT", syscall.ETIMEDOUT, true},
		{"ENETUNREACH", syscall.ENETUNREACH, true},
		{"permanent 503", Permanent(&HTTPError{StatusCode: 503}), false},
		{"generic", errors.New("some error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.retryable {
				t.Errorf("IsRetryable()=%v, want %v", got, tt.retryable)
			}
		})
	}
}

func TestPermanent(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must be nil")
	}
	base := errors.New("article gone")
	err := fmt.Errorf("process: %w", Permanent(base))
	if !IsPermanent(err) {
		t.Fatal("IsPermanent=false for wrapped permanent error")
	}
	if !errors.Is(err, base) {
		t.Fatal("Permanent must unwrap to the original error")
	}
	if err.Error() != "process: article gone" {
		t.Fatalf("Error()=%q", err.Error())
	}
}

/* ───────────────────────── 3. Delay ───────────────────────── */

func TestDelay(t *testing.T) {
	cfg := Config{InitialDelay: 10 * time.Second, MaxDelay: 35 * time.Second, Multiplier: 2}

	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, 0},
		{1, 0},
		{2, 10 * time.Second},
		{3, 20 * time.Second},
		{4, 35 * time.Second},
		{9, 35 * time.Second},
	}
	for _, tt := range tests {
		if got := Delay(cfg, tt.attempt); got != tt.want {
			t.Errorf("Delay(attempt=%d)=%v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestJitteredDelay(t *testing.T) {
	cfg := ScrapeJobConfig(3)
	base := Delay(cfg, 2)
	for i := 0; i < 10; i++ {
		got := JitteredDelay(cfg, 2)
		if got < base || got > time.Duration(float64(base)*1.1) {
			t.Fatalf("JitteredDelay=%v outside [%v, +10%%]", got, base)
		}
	}
}

func TestJobConfigs(t *testing.T) {
	if c := ScrapeJobConfig(3); c.MaxAttempts != 3 || c.MaxDelay != 5*time.Minute {
		t.Errorf("ScrapeJobConfig=%+v", c)
	}
	if c := ProcessJobConfig(2); c.MaxAttempts != 2 || c.MaxDelay != time.Minute {
		t.Errorf("ProcessJobConfig=%+v", c)
	}
	if c := ContentFetchConfig(); c.MaxAttempts != 2 {
		t.Errorf("ContentFetchConfig=%+v", c)
	}
}

/* ───────────────────────── 4. Jitter ───────────────────────── */

func TestAddJitter(t *testing.T) {
	d := 100 * time.Millisecond
	if got := addJitter(d, 0); got != d {
		t.Fatalf("zero fraction changed duration: %v", got)
	}
	for i := 0; i < 10; i++ {
		got := addJitter(d, 0.2)
		if got < d || got > 120*time.Millisecond {
			t.Fatalf("addJitter=%v outside [100ms,120ms]", got)
		}
	}
}
