// Package retry runs failure-prone operations with rate-limited attempts
// and exponential backoff.
//
// Example usage:
//
//	lim := retry.New(time.Second, 3, 500*time.Millisecond, 5*time.Second)
//	err := lim.Do(ctx, func() error {
//	    return doSomeWork()
//	})
package retry

import (
	"context"
	"math/rand"
	"time"

	"golang.org/x/time/rate"
)

// Limiter paces repeated attempts of an operation. A token bucket spaces
// attempts out at a steady rate and an exponential delay backs off after
// each failure.
type Limiter struct {
	rl          *rate.Limiter
	maxAttempts int
	baseDelay   time.Duration
	maxDelay    time.Duration
}

// New creates a Limiter allowing one attempt per `every` interval, up to
// maxAttempts attempts per Do call, sleeping baseDelay (doubled each
// failure, capped at maxDelay) between attempts.
func New(every time.Duration, maxAttempts int, baseDelay, maxDelay time.Duration) *Limiter {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Limiter{
		rl:          rate.NewLimiter(rate.Every(every), 1),
		maxAttempts: maxAttempts,
		baseDelay:   baseDelay,
		maxDelay:    maxDelay,
	}
}

// Do runs fn until it succeeds or attempts are exhausted. The error from
// the last attempt is returned. Safe for concurrent use; concurrent callers
// share the rate limit.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if ctx == nil {
		ctx = context.Background()
	}

	delay := l.baseDelay
	var err error

	for attempt := 1; attempt <= l.maxAttempts; attempt++ {
		if werr := l.rl.Wait(ctx); werr != nil {
			return werr
		}

		if err = fn(); err == nil {
			return nil
		}

		if attempt == l.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(addJitter(delay)):
		}

		delay *= 2
		if l.maxDelay > 0 && delay > l.maxDelay {
			delay = l.maxDelay
		}
	}

	return err
}

// addJitter adds random jitter (0-25% of delay) so parallel retries spread out.
func addJitter(delay time.Duration) time.Duration {
	if delay <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(delay/4)+1))
}
