package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/iho/fintech/internal/domain"
)

func fastRetrier(attempts int) *Retrier {
	return New(Config{
		MaxAttempts:     attempts,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
		MaxElapsedTime:  time.Second,
	}, zerolog.Nop())
}

func TestRetrierRetriesOnConflict(t *testing.T) {
	r := fastRetrier(3)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return fmt.Errorf("commit: %w", domain.ErrConcurrencyConflict)
		}
		return nil
	})

	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetrierBoundedAttempts(t *testing.T) {
	r := fastRetrier(3)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return domain.ErrConcurrencyConflict
	})

	if !errors.Is(err, domain.ErrConcurrencyConflict) {
		t.Fatalf("expected conflict to surface, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetrierNeverRetriesInsufficientBalance(t *testing.T) {
	r := fastRetrier(5)

	attempts := 0
	err := r.Retry(context.Background(), func() error {
		attempts++
		return &domain.InsufficientBalanceError{AccountID: "acc-1"}
	})

	if !errors.Is(err, domain.ErrInsufficientBalance) {
		t.Fatalf("expected insufficient balance, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRetrierStopsWhenContextDone(t *testing.T) {
	r := New(Config{MaxAttempts: 100, InitialInterval: 50 * time.Millisecond}, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := r.Retry(ctx, func() error {
		attempts++
		cancel()
		return domain.ErrConcurrencyConflict
	})

	if err == nil {
		t.Fatal("expected an error")
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestIsRetryable(t *testing.T) {
	if !IsRetryable(&pgconn.PgError{Code: pgErrDeadlock}) {
		t.Fatalf("expected deadlock error to be retryable")
	}
	if !IsRetryable(&pgconn.PgError{Code: pgErrSerializationFailure}) {
		t.Fatalf("expected serialization failure to be retryable")
	}
	if IsRetryable(errors.New("other")) {
		t.Fatalf("expected generic error to be non-retryable")
	}
	if IsRetryable(domain.ErrNotFound) {
		t.Fatalf("expected not found to be non-retryable")
	}
}
