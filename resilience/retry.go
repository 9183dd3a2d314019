package resilience

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Sleeper waits for d or until ctx is done, whichever comes first.
type Sleeper func(ctx context.Context, d time.Duration) error

// ContextSleep is the default Sleeper backed by a timer.
func ContextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int
	// InitialBackoff is the delay before the first retry.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay. Zero means uncapped.
	MaxBackoff time.Duration
	// BackoffFactor is the multiplier for exponential backoff.
	BackoffFactor float64
	// Jitter adds randomness to backoff (0.0 to 1.0).
	Jitter float64
	// RetryIf determines if an error should be retried. Nil retries nothing.
	RetryIf func(error) bool
	// OnRetry is called before each retry with the 1-based retry number.
	OnRetry func(retry int, err error, backoff time.Duration)
	// Sleep waits between attempts. Nil means ContextSleep.
	Sleep Sleeper
}

// DefaultRetryConfig returns 3 retries at 1s, 2s and 4s without jitter.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:     3,
		InitialBackoff: time.Second,
		BackoffFactor:  2.0,
	}
}

// Backoff returns the delay before the retry with the given 0-based index.
func (cfg RetryConfig) Backoff(retryIndex int) time.Duration {
	factor := cfg.BackoffFactor
	if factor <= 0 {
		factor = 2.0
	}
	d := float64(cfg.InitialBackoff) * math.Pow(factor, float64(retryIndex))

	if cfg.Jitter > 0 {
		jitterRange := d * cfg.Jitter
		d += (rand.Float64()*2 - 1) * jitterRange
	}
	if cfg.MaxBackoff > 0 && d > float64(cfg.MaxBackoff) {
		d = float64(cfg.MaxBackoff)
	}
	if d < 0 {
		d = float64(cfg.InitialBackoff)
	}
	return time.Duration(d)
}

// Retry calls fn until it succeeds, returns an error RetryIf rejects, or
// the retry budget is spent. The last error is returned unchanged. If ctx
// ends first, ctx.Err() is returned.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = ContextSleep
	}

	retriesLeft := cfg.MaxRetries
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if retriesLeft <= 0 || cfg.RetryIf == nil || !cfg.RetryIf(err) {
			return zero, err
		}

		retryIndex := attempt - 1
		delay := cfg.Backoff(retryIndex)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, delay)
		}
		if serr := sleep(ctx, delay); serr != nil {
			return zero, serr
		}
		retriesLeft--
	}
}

// RetryFunc executes a function that returns only an error.
func RetryFunc(ctx context.Context, cfg RetryConfig, fn func() error) error {
	_, err := Retry(ctx, cfg, func() (struct{}, error) {
		return struct{}{}, fn()
	})
	return err
}

// IsContextError reports whether err is a context cancellation or deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
