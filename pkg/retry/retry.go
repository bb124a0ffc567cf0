// Package retry provides fixed-delay retry logic for idempotent API reads.
package retry

import (
	"context"
	"errors"
	"time"
)

// Config holds retry configuration.
type Config struct {
	MaxAttempts int           // Maximum number of attempts (0 = infinite)
	Delay       time.Duration // Fixed wait between attempts
}

// DefaultConfig returns the stock policy: three attempts, one second apart.
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       time.Second,
	}
}

// RetryableError wraps an error that should be retried.
type RetryableError struct {
	Err error
}

func (e RetryableError) Error() string {
	return e.Err.Error()
}

func (e RetryableError) Unwrap() error {
	return e.Err
}

// IsRetryable returns true if the error should be retried.
func IsRetryable(err error) bool {
	var retryable RetryableError
	return errors.As(err, &retryable)
}

// Retryable wraps an error to mark it as retryable.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return RetryableError{Err: err}
}

// Do executes fn with retries. Only errors marked Retryable are retried;
// everything else returns immediately.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	var lastErr error

	for attempt := 1; cfg.MaxAttempts == 0 || attempt <= cfg.MaxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return err
		}

		if ctx.Err() != nil {
			return ctx.Err()
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	return lastErr
}

// DoWithResult executes fn with retries and returns a result.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	var lastErr error

	for attempt := 1; cfg.MaxAttempts == 0 || attempt <= cfg.MaxAttempts; attempt++ {
		r, err := fn()
		if err == nil {
			return r, nil
		}

		lastErr = err

		if !IsRetryable(err) {
			return result, err
		}

		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-time.After(cfg.Delay):
		}
	}

	return result, lastErr
}
