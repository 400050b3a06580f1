package retry

import (
	"context"
	"fmt"
	"time"
)

const (
	// DefaultMaxAttempts bounds retries for transient provider failures
	DefaultMaxAttempts = 3

	baseDelay = 1 * time.Second
	maxDelay  = 10 * time.Second
)

// Sleep waits out one backoff delay, honoring context cancellation.
// Exported as a variable so tests (including callers' sender tests) can
// swap it out and avoid real waits.
var Sleep = func(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ExhaustedError reports that all attempts failed with transient errors.
// The last underlying error is preserved.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("rate limit exceeded after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error {
	return e.Last
}

// Backoff returns the delay applied after failed attempt n (1-based):
// 1s, 2s, 4s, ... capped at 10s.
func Backoff(attempt int) time.Duration {
	d := baseDelay << uint(attempt-1)
	if d > maxDelay {
		d = maxDelay
	}
	return d
}

// Do runs op up to maxAttempts times. Only errors the transient classifier
// accepts are retried; anything else propagates immediately. When the last
// attempt still fails transiently, Do returns an *ExhaustedError wrapping
// the final error.
func Do(ctx context.Context, maxAttempts int, op func() error, transient func(error) bool) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = op()
		if err == nil {
			return nil
		}
		if !transient(err) {
			return err
		}
		if attempt == maxAttempts {
			break
		}
		if serr := Sleep(ctx, Backoff(attempt)); serr != nil {
			return serr
		}
	}
	return &ExhaustedError{Attempts: maxAttempts, Last: err}
}
