package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errLimited = errors.New("rate limited")

func isLimited(err error) bool { return errors.Is(err, errLimited) }

// recordSleeps returns a Sleeper that records delays without waiting.
func recordSleeps(delays *[]time.Duration) Sleeper {
	return func(ctx context.Context, d time.Duration) error {
		*delays = append(*delays, d)
		return ctx.Err()
	}
}

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	var delays []time.Duration
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = recordSleeps(&delays)
	calls := 0

	result, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		return "ok", nil
	})
	if err != nil || result != "ok" {
		t.Fatalf("expected ok, got %q, %v", result, err)
	}
	if calls != 1 || len(delays) != 0 {
		t.Errorf("expected 1 call and no sleeps, got %d calls, %v", calls, delays)
	}
}

func TestRetry_ExponentialDelays(t *testing.T) {
	var delays []time.Duration
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = recordSleeps(&delays)
	calls := 0

	_, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errLimited
	})
	if !errors.Is(err, errLimited) {
		t.Fatalf("expected last error, got %v", err)
	}
	if calls != 4 {
		t.Errorf("expected 1 attempt + 3 retries, got %d calls", calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	if len(delays) != len(want) {
		t.Fatalf("expected %d sleeps, got %v", len(want), delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay[%d] = %v, want %v", i, delays[i], want[i])
		}
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	var delays []time.Duration
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = recordSleeps(&delays)
	calls := 0

	result, err := Retry(context.Background(), cfg, func() (string, error) {
		calls++
		if calls < 3 {
			return "", errLimited
		}
		return "done", nil
	})
	if err != nil || result != "done" {
		t.Fatalf("expected done, got %q, %v", result, err)
	}
	if len(delays) != 2 {
		t.Errorf("expected 2 sleeps, got %v", delays)
	}
}

func TestRetry_NonRetryableIsTerminal(t *testing.T) {
	var delays []time.Duration
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = recordSleeps(&delays)
	terminal := errors.New("bad request")
	calls := 0

	_, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, terminal
	})
	if !errors.Is(err, terminal) {
		t.Fatalf("expected terminal error, got %v", err)
	}
	if calls != 1 || len(delays) != 0 {
		t.Errorf("expected a single attempt, got %d calls and %v", calls, delays)
	}
}

func TestRetry_ZeroRetries(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 0, RetryIf: isLimited}
	calls := 0
	_, err := Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errLimited
	})
	if !errors.Is(err, errLimited) || calls != 1 {
		t.Errorf("expected one call and the error, got %d, %v", calls, err)
	}
}

func TestRetry_NilRetryIfRetriesNothing(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3}
	calls := 0
	_, _ = Retry(context.Background(), cfg, func() (int, error) {
		calls++
		return 0, errLimited
	})
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestRetry_ContextCancelledDuringSleep(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = func(ctx context.Context, d time.Duration) error {
		cancel()
		return ctx.Err()
	}

	_, err := Retry(ctx, cfg, func() (int, error) { return 0, errLimited })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRetry_ContextDoneBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	_, err := Retry(ctx, DefaultRetryConfig(), func() (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) || calls != 0 {
		t.Errorf("expected no call and context.Canceled, got %d, %v", calls, err)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retries []int
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }
	cfg.OnRetry = func(retry int, err error, backoff time.Duration) {
		retries = append(retries, retry)
	}

	_, _ = Retry(context.Background(), cfg, func() (int, error) { return 0, errLimited })
	if len(retries) != 3 || retries[0] != 1 || retries[2] != 3 {
		t.Errorf("unexpected OnRetry calls: %v", retries)
	}
}

func TestRetryFunc(t *testing.T) {
	cfg := DefaultRetryConfig()
	cfg.RetryIf = isLimited
	cfg.Sleep = func(context.Context, time.Duration) error { return nil }
	calls := 0
	err := RetryFunc(context.Background(), cfg, func() error {
		calls++
		if calls == 1 {
			return errLimited
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("expected success on second call, got %d, %v", calls, err)
	}
}

func TestBackoff(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: 100 * time.Millisecond, BackoffFactor: 2, MaxBackoff: 300 * time.Millisecond}
	tests := []struct {
		index int
		want  time.Duration
	}{
		{0, 100 * time.Millisecond},
		{1, 200 * time.Millisecond},
		{2, 300 * time.Millisecond},
	}
	for _, tc := range tests {
		if got := cfg.Backoff(tc.index); got != tc.want {
			t.Errorf("Backoff(%d) = %v, want %v", tc.index, got, tc.want)
		}
	}
}

func TestBackoff_JitterStaysInRange(t *testing.T) {
	cfg := RetryConfig{InitialBackoff: time.Second, BackoffFactor: 2, Jitter: 0.1}
	for i := 0; i < 50; i++ {
		d := cfg.Backoff(0)
		if d < 900*time.Millisecond || d > 1100*time.Millisecond {
			t.Fatalf("jittered backoff %v out of range", d)
		}
	}
}

func TestContextSleep(t *testing.T) {
	if err := ContextSleep(context.Background(), time.Millisecond); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := ContextSleep(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestIsContextError(t *testing.T) {
	if !IsContextError(context.Canceled) || !IsContextError(context.DeadlineExceeded) {
		t.Error("expected context errors to be detected")
	}
	if IsContextError(errLimited) {
		t.Error("plain error is not a context error")
	}
}
