package resilience

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/leadops/lead-console/internal/core/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestExecuteRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, testLogger())

	attempts := 0
	err := exec.Execute(context.Background(), "storage_stats", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return domain.WrapError(domain.ErrTemporary, "storage stats", errors.New("connection refused"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestExecuteDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    3,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     2 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, testLogger())

	attempts := 0
	errPermanent := domain.WrapError(domain.ErrUpstream, "storage stats", errors.New("status 500"))
	err := exec.Execute(context.Background(), "storage_stats", func(context.Context) error {
		attempts++
		return errPermanent
	})
	if !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestExecuteGivesUpAfterMaxAttempts(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:    2,
		RetryInitialBackoff: 1 * time.Millisecond,
		RetryMaxBackoff:     1 * time.Millisecond,
		RetryMultiplier:     2,
		BreakerEnabled:      false,
	}, testLogger())

	attempts := 0
	err := exec.Execute(context.Background(), "storage_cleanup", func(context.Context) error {
		attempts++
		return domain.WrapError(domain.ErrTemporary, "storage cleanup", errors.New("timeout"))
	})
	if !errors.Is(err, domain.ErrTemporary) {
		t.Fatalf("expected temporary error after exhaustion, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestExecuteOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      50 * time.Millisecond,
		BreakerHalfOpenMaxCalls: 1,
	}, testLogger())

	errUpstream := domain.WrapError(domain.ErrUpstream, "storage stats", errors.New("status 503"))
	for i := 0; i < 2; i++ {
		err := exec.Execute(context.Background(), "storage_stats", func(context.Context) error {
			return errUpstream
		})
		if !errors.Is(err, domain.ErrUpstream) {
			t.Fatalf("expected upstream error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Execute(context.Background(), "storage_stats", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	})
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open state error, got %v", err)
	}
	if !errors.Is(err, gobreaker.ErrOpenState) {
		t.Fatalf("expected gobreaker open state, got %v", err)
	}
}

func TestExecuteBreakersAreIndependentPerOperation(t *testing.T) {
	exec := NewExecutor(Config{
		RetryMaxAttempts:        1,
		RetryInitialBackoff:     1 * time.Millisecond,
		RetryMaxBackoff:         1 * time.Millisecond,
		RetryMultiplier:         2,
		BreakerEnabled:          true,
		BreakerMinRequests:      2,
		BreakerFailureRatio:     0.5,
		BreakerOpenTimeout:      time.Minute,
		BreakerHalfOpenMaxCalls: 1,
	}, testLogger())

	errUpstream := domain.WrapError(domain.ErrUpstream, "storage stats", errors.New("boom"))
	for i := 0; i < 3; i++ {
		_ = exec.Execute(context.Background(), "backend_stats", func(context.Context) error {
			return errUpstream
		})
	}

	err := exec.Execute(context.Background(), "transcription_stats", func(context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("independent operation tripped by another breaker: %v", err)
	}
}
