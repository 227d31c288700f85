package circuitbreaker

import (
	"errors"
	"testing"
	"time"

	"github.com/sony/gobreaker"
)

func testConfig(timeout time.Duration) Config {
	return Config{
		Name:             "test-circuit",
		MaxRequests:      2,
		Interval:         10 * time.Second,
		Timeout:          timeout,
		FailureThreshold: 0.6,
		MinRequests:      3,
	}
}

func TestNew(t *testing.T) {
	cb := New(testConfig(time.Second))

	if cb.Name() != "test-circuit" {
		t.Errorf("Name()=%q, want test-circuit", cb.Name())
	}
	if cb.State() != gobreaker.StateClosed || cb.State() == gobreaker.StateOpen {
		t.Errorf("initial state=%v, want Closed", cb.State())
	}
}

func TestCircuitBreaker_Execute(t *testing.T) {
	cb := New(testConfig(time.Second))

	got, err := cb.Execute(func() (any, error) { return "ok", nil })
	if err != nil || got != "ok" {
		t.Fatalf("Execute got=(%v,%v)", got, err)
	}

	boom := errors.New("boom")
	if _, err := cb.Execute(func() (any, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Fatalf("Execute err=%v, want boom", err)
	}
}

func TestCircuitBreaker_TripsOpenAndRecovers(t *testing.T) {
	cb := New(testConfig(100 * time.Millisecond))
	boom := errors.New("boom")

	// MinRequests未満ではトリップしない
	for i := 0; i < 2; i++ {
		_, _ = cb.Execute(func() (any, error) { return nil, boom })
	}
	if cb.State() == gobreaker.StateOpen {
		t.Fatal("tripped before MinRequests")
	}

	_, _ = cb.Execute(func() (any, error) { return nil, boom })
	if cb.State() != gobreaker.StateOpen {
		t.Fatalf("state=%v, want Open", cb.State())
	}

	_, err := cb.Execute(func() (any, error) {
		t.Error("fn must not run while open")
		return nil, nil
	})
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("err=%v, want ErrOpenState", err)
	}

	time.Sleep(150 * time.Millisecond)
	if _, err := cb.Execute(func() (any, error) { return "ok", nil }); err != nil {
		t.Fatalf("half-open probe failed: %v", err)
	}
	if cb.State() == gobreaker.StateOpen {
		t.Fatalf("state=%v after successful probe", cb.State())
	}
}

func TestConfigs(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
	}{
		{"default", DefaultConfig("svc"), "svc"},
		{"provider", ProviderConfig("newsapi"), "provider-newsapi"},
		{"content fetch", ContentFetchConfig(), "content-fetch"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.cfg.Name != tt.wantName {
				t.Errorf("Name=%q, want %q", tt.cfg.Name, tt.wantName)
			}
			if tt.cfg.MaxRequests == 0 || tt.cfg.Timeout <= 0 || tt.cfg.MinRequests == 0 {
				t.Errorf("incomplete config: %+v", tt.cfg)
			}
			if tt.cfg.FailureThreshold <= 0 || tt.cfg.FailureThreshold > 1 {
				t.Errorf("FailureThreshold=%v out of range", tt.cfg.FailureThreshold)
			}
		})
	}
}
