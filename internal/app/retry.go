package app

import (
	"context"
	"time"
)

// RetryPolicy bounds a retried operation: at most MaxAttempts calls with a
// fixed Delay between consecutive attempts.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
}

// DefaultLoadPolicy is the policy for loading the quote list.
var DefaultLoadPolicy = RetryPolicy{MaxAttempts: 3, Delay: 300 * time.Millisecond}

func (p RetryPolicy) attempts() int {
	return max(p.MaxAttempts, 1)
}

// Retry calls fn until it succeeds or the policy's attempts are used up, and
// returns the last error in the latter case. Attempts run sequentially. Each
// failure is reported to onFailure (may be nil) with its 1-based attempt
// number before waiting. There is no wait after the last attempt.
//
// The loop itself does not observe ctx: every attempt runs even after ctx
// ends. ctx only reaches fn.
func Retry[T any](
	ctx context.Context,
	policy RetryPolicy,
	fn func(ctx context.Context) (T, error),
	onFailure func(attempt int, err error),
) (T, error) {
	var zero T

	attempts := policy.attempts()

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := fn(ctx)
		if err == nil {
			return result, nil
		}

		lastErr = err

		if onFailure != nil {
			onFailure(attempt, err)
		}

		if attempt == attempts {
			break
		}

		time.Sleep(policy.Delay)
	}

	return zero, lastErr
}
