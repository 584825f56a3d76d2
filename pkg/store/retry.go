package store

import (
	"context"
	"errors"
	"time"

	"github.com/matzehuels/tilecascade/pkg/pyramid"
	"github.com/matzehuels/tilecascade/pkg/raster"
)

// RetryableError wraps an error to indicate it should trigger a retry.
type RetryableError struct{ Err error }

// Retryable wraps an error as a RetryableError.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func retryableIf(err error, transient bool) error {
	if transient {
		return Retryable(err)
	}
	return err
}

// Error returns the error message of the wrapped error.
func (e *RetryableError) Error() string { return e.Err.Error() }

// Unwrap returns the wrapped error.
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable checks if an error is wrapped with RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Retry executes fn up to attempts times with exponential backoff.
// Only errors wrapped with Retryable trigger retries; other errors are
// returned immediately. Returns ctx.Err() if cancelled while waiting.
func Retry(ctx context.Context, attempts int, delay time.Duration, fn func() error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if err := fn(); err == nil {
			return nil
		} else if lastErr = err; !IsRetryable(err) {
			return err
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}

// RetryWithBackoff retries fn up to 3 times starting with a 1 second delay.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Retry(ctx, 3, time.Second, fn)
}

// Retrying wraps a TileStore and retries reads and writes that fail with a
// retryable error.
type Retrying struct {
	inner    TileStore
	attempts int
	delay    time.Duration
}

// NewRetrying wraps inner with the default policy of 3 attempts and a 1
// second initial delay.
func NewRetrying(inner TileStore) *Retrying {
	return &Retrying{inner: inner, attempts: 3, delay: time.Second}
}

// WithPolicy returns a copy of r using the given attempts and initial delay.
func (r *Retrying) WithPolicy(attempts int, delay time.Duration) *Retrying {
	c := *r
	c.attempts = attempts
	c.delay = delay
	return &c
}

// Read implements TileStore.
func (r *Retrying) Read(ctx context.Context, addr pyramid.Address, mode raster.Mode) (*raster.Buffer, bool, error) {
	var (
		buf *raster.Buffer
		ok  bool
	)
	err := Retry(ctx, r.attempts, r.delay, func() error {
		var err error
		buf, ok, err = r.inner.Read(ctx, addr, mode)
		return err
	})
	return buf, ok, err
}

// Write implements TileStore.
func (r *Retrying) Write(ctx context.Context, addr pyramid.Address, buf *raster.Buffer) error {
	return Retry(ctx, r.attempts, r.delay, func() error {
		return r.inner.Write(ctx, addr, buf)
	})
}

// Close closes the wrapped store.
func (r *Retrying) Close() error {
	return Close(r.inner)
}

// Unwrap returns the wrapped store.
func (r *Retrying) Unwrap() TileStore {
	return r.inner
}
