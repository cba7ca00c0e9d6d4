// Package retry provides the bounded exponential-backoff decorator
// shared by negotiation attempts and stream transfers.
package retry

import (
	"context"
	"errors"
	"time"
)

// Policy bounds a retried operation.
type Policy struct {
	// Attempts is the total number of tries, including the first.
	// Values below 1 are treated as 1.
	Attempts int
	// BaseDelay is the delay before the second try; it doubles per
	// attempt up to MaxDelay.
	BaseDelay time.Duration
	MaxDelay  time.Duration
}

// Default mirrors the tuning the platform tolerates in practice:
// three tries, half-second base backoff.
func Default() Policy {
	return Policy{Attempts: 3, BaseDelay: 500 * time.Millisecond, MaxDelay: 3 * time.Second}
}

type permanentError struct{ err error }

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks err as non-transient so Do stops immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Do runs fn until it succeeds, returns a Permanent error, the context
// is done, or the attempt budget is exhausted. The returned error is
// the last failure, unwrapped from its Permanent marker.
func (p Policy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		var pe *permanentError
		if errors.As(err, &pe) {
			return pe.err
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}
		if err := sleep(ctx, p.backoffFor(attempt)); err != nil {
			return err
		}
	}
	return lastErr
}

func (p Policy) backoffFor(attempt int) time.Duration {
	backoff := p.BaseDelay
	if backoff <= 0 {
		backoff = 500 * time.Millisecond
	}
	max := p.MaxDelay
	if max <= 0 {
		max = 3 * time.Second
	}
	for i := 0; i < attempt; i++ {
		backoff *= 2
		if backoff > max {
			return max
		}
	}
	return backoff
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
