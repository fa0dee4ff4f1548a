// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP and retry helpers used by the graph client.
package httputil

import (
	"context"
	"errors"
	"time"
)

// SleepFunc waits for d or until ctx is done, whichever comes first.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc. It returns ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// permanentError marks a failure that a fresh attempt cannot fix.
type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so that Retry returns it without another attempt.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err}
}

// Retryable reports whether err may succeed on a fresh attempt. Once ctx is
// done nothing is retryable; before that, every failure is retryable except
// cancellations and errors marked Permanent. An http.Client timeout matches
// context.DeadlineExceeded but leaves ctx alive, so it is retried.
func Retryable(ctx context.Context, err error) bool {
	if err == nil || ctx.Err() != nil {
		return false
	}
	var perm *permanentError
	return !errors.Is(err, context.Canceled) && !errors.As(err, &perm)
}

// Retry calls fn up to attempts times, sleeping delay between calls. It stops
// at the first nil error or the first error Retryable rejects. After the last
// attempt the final error is returned along with the number of calls made.
// onRetry, when non-nil, is called before each sleep.
func Retry(ctx context.Context, attempts int, delay time.Duration, sleep SleepFunc, onRetry func(attempt int, err error), fn func(attempt int) error) (int, error) {
	if attempts <= 0 {
		attempts = 1
	}
	if sleep == nil {
		sleep = Sleep
	}

	var err error
	for attempt := 1; ; attempt++ {
		err = fn(attempt)
		if err == nil || !Retryable(ctx, err) || attempt >= attempts {
			return attempt, err
		}
		if onRetry != nil {
			onRetry(attempt, err)
		}
		if sleepErr := sleep(ctx, delay); sleepErr != nil {
			return attempt, sleepErr
		}
	}
}
