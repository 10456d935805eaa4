package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

type probe struct {
	err   error
	delay time.Duration
}

func (p *probe) HealthCheck(ctx context.Context) error {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func TestCheckAllAggregates(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("db", &probe{}, 0))
	registry.Register(NewAdapterChecker("cache", &probe{}, 0))

	status, results := registry.CheckAll(context.Background())
	if status != StatusHealthy {
		t.Fatalf("expected healthy, got %s", status)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
}

func TestOneFailureMakesUnhealthy(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("db", &probe{}, 0))
	registry.Register(NewAdapterChecker("broken", &probe{err: errors.New("down")}, 0))

	status, results := registry.CheckAll(context.Background())
	if status != StatusUnhealthy {
		t.Fatalf("expected unhealthy, got %s", status)
	}
	for _, result := range results {
		if result.Name == "broken" && result.Error != "down" {
			t.Fatalf("expected the check error to be reported, got %q", result.Error)
		}
	}
}

func TestCheckTimesOut(t *testing.T) {
	checker := NewAdapterChecker("slow", &probe{delay: 200 * time.Millisecond}, 10*time.Millisecond)

	result := checker.Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("a check exceeding its timeout must be unhealthy, got %s", result.Status)
	}
}

func TestRegisterReplacesByName(t *testing.T) {
	registry := NewRegistry()
	registry.Register(NewAdapterChecker("db", &probe{err: errors.New("down")}, 0))
	registry.Register(NewAdapterChecker("db", &probe{}, 0))

	status, results := registry.CheckAll(context.Background())
	if status != StatusHealthy || len(results) != 1 {
		t.Fatalf("expected one healthy check, got %s with %d results", status, len(results))
	}
}
