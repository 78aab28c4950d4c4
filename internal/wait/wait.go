// Package wait implements bounded polling waits. It is the only place the
// page objects suspend: poll a condition until it holds or the timeout
// expires, then fail with a message describing what was awaited.
package wait

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Options bounds a polling wait.
type Options struct {
	Timeout time.Duration
	Delay   time.Duration
	Message string
}

// DefaultOptions returns a one minute wait polling every second.
func DefaultOptions() Options {
	return Options{Timeout: time.Minute, Delay: time.Second}
}

// Condition is polled until it reports true. A returned error aborts the wait.
type Condition func(ctx context.Context) (bool, error)

// TimeoutError reports a wait whose condition never held.
type TimeoutError struct {
	Message string
	Timeout time.Duration
	Polls   int
}

func (e *TimeoutError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "condition"
	}
	return fmt.Sprintf("timed out after %s waiting for %s (%d polls)", e.Timeout, msg, e.Polls)
}

// IsTimeout reports whether err is (or wraps) a TimeoutError.
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}

// For polls cond until it returns true, returns an error, or opts.Timeout elapses.
// The condition is always evaluated at least once.
func For(ctx context.Context, cond Condition, opts Options) error {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultOptions().Timeout
	}
	if opts.Delay <= 0 {
		opts.Delay = DefaultOptions().Delay
	}

	deadline := time.Now().Add(opts.Timeout)
	polls := 0
	for {
		polls++
		ok, err := cond(ctx)
		if err != nil {
			return fmt.Errorf("waiting for %s: %w", describe(opts.Message), err)
		}
		if ok {
			return nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return &TimeoutError{Message: opts.Message, Timeout: opts.Timeout, Polls: polls}
		}

		sleep := opts.Delay
		if sleep > remaining {
			sleep = remaining
		}
		timer := time.NewTimer(sleep)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("waiting for %s: %w", describe(opts.Message), ctx.Err())
		case <-timer.C:
		}
	}
}

func describe(msg string) string {
	if msg == "" {
		return "condition"
	}
	return msg
}
