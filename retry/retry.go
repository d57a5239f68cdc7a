// Package retry provides exponential backoff with jitter for fallible calls.
//
// Information Hiding:
// - Backoff algorithm hidden
// - Jitter source hidden
// - Error classification contract exposed via Retryable/IsRetryable
package retry

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
)

// Default retry parameters, applied by DefaultOptions.
const (
	DefaultMaxRetries   = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 10 * time.Second
)

// Jitter bounds. The computed delay is scaled by a factor drawn
// uniformly from [JitterMin, JitterMax].
const (
	JitterMin = 0.75
	JitterMax = 1.25
)

// Options configures Do.
type Options struct {
	// MaxRetries is the number of additional attempts after the first.
	// Zero means the operation runs exactly once.
	MaxRetries int

	// InitialDelay is the backoff before the first retry. The delay
	// doubles on each subsequent retry.
	InitialDelay time.Duration

	// MaxDelay is a hard ceiling on the computed backoff. Jitter is
	// applied to the capped value.
	MaxDelay time.Duration

	// ShouldRetry classifies an error as worth retrying. Nil defaults
	// to IsRetryable, which only accepts errors marked with Retryable.
	ShouldRetry func(error) bool

	// Logger records every attempt with its outcome and computed delay.
	// Nil disables logging.
	Logger *zap.Logger

	// sleep and jitter are swapped out in tests.
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() float64
}

// DefaultOptions returns the standard retry policy: 3 retries, 1s initial
// delay doubling up to a 10s ceiling, retrying only marked-retryable errors.
func DefaultOptions() Options {
	return Options{
		MaxRetries:   DefaultMaxRetries,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
		ShouldRetry:  IsRetryable,
	}
}

// Do runs op up to 1+opts.MaxRetries times, sleeping between attempts.
//
// A failure that opts.ShouldRetry rejects is returned immediately with no
// delay. When attempts are exhausted the last error is returned unchanged,
// so errors.Is/As classification done by the caller still works.
func Do[T any](ctx context.Context, opts Options, op func(context.Context) (T, error)) (T, error) {
	var zero T

	shouldRetry := opts.ShouldRetry
	if shouldRetry == nil {
		shouldRetry = IsRetryable
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	sleep := opts.sleep
	if sleep == nil {
		sleep = sleepCtx
	}
	jitter := opts.jitter
	if jitter == nil {
		jitter = rand.Float64
	}

	var lastErr error
	for attempt := 0; attempt <= opts.MaxRetries; attempt++ {
		result, err := op(ctx)
		if err == nil {
			logger.Debug("attempt succeeded", zap.Int("attempt", attempt))
			return result, nil
		}
		lastErr = err

		if !shouldRetry(err) {
			logger.Warn("attempt failed with non-retryable error",
				zap.Int("attempt", attempt),
				zap.Error(err))
			return zero, err
		}
		if attempt == opts.MaxRetries {
			break
		}

		delay := backoffDelay(opts, attempt, jitter)
		logger.Warn("attempt failed, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(err))
		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
	}

	logger.Error("retries exhausted",
		zap.Int("attempts", opts.MaxRetries+1),
		zap.Error(lastErr))
	return zero, lastErr
}

// backoffDelay computes min(InitialDelay·2^attempt, MaxDelay) scaled by a
// jitter factor in [JitterMin, JitterMax].
func backoffDelay(opts Options, attempt int, jitter func() float64) time.Duration {
	delay := opts.InitialDelay * time.Duration(1<<attempt)
	if opts.MaxDelay > 0 && delay > opts.MaxDelay {
		delay = opts.MaxDelay
	}
	factor := JitterMin + jitter()*(JitterMax-JitterMin)
	return time.Duration(float64(delay) * factor)
}

// sleepCtx sleeps for d or until ctx is done, whichever comes first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// retryableError marks an error as transient.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }

func (e *retryableError) Unwrap() error { return e.err }

// Retryable marks err as safe to retry with backoff. Wrapping preserves
// the original chain for errors.Is/As.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &retryableError{err: err}
}

// IsRetryable reports whether err (or anything it wraps) was marked with
// Retryable. This is the default ShouldRetry classification.
func IsRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}
