package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastConfig() Config {
	return Config{MaxAttempts: 3, Delay: time.Millisecond}
}

func TestDo_SucceedsAfterRetries(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		if attempts < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_NonRetryableReturnsImmediately(t *testing.T) {
	attempts := 0
	permanent := errors.New("permanent")
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDo_ExhaustsAttempts(t *testing.T) {
	attempts := 0
	err := Do(context.Background(), fastConfig(), func() error {
		attempts++
		return Retryable(errors.New("always failing"))
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 3 {
		t.Errorf("expected 3 attempts, got %d", attempts)
	}
}

func TestDo_ContextCancelStopsRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	err := Do(ctx, Config{MaxAttempts: 5, Delay: 10 * time.Millisecond}, func() error {
		attempts++
		cancel()
		return Retryable(errors.New("transient"))
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestDoWithResult(t *testing.T) {
	attempts := 0
	got, err := DoWithResult(context.Background(), fastConfig(), func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", Retryable(errors.New("transient"))
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("expected ok, got %q", got)
	}
}

func TestRetryableUnwrap(t *testing.T) {
	inner := errors.New("inner")
	wrapped := Retryable(inner)
	if !errors.Is(wrapped, inner) {
		t.Error("Retryable should preserve the wrapped error")
	}
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	if IsRetryable(inner) {
		t.Error("plain error should not be retryable")
	}
}
