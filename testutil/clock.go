package testutil

import (
	"context"
	"sync"
	"time"
)

// ManualClock is a clock that only moves when told to.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a clock stopped at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current fake time.
func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// SleepRecorder records requested sleeps and returns immediately.
type SleepRecorder struct {
	mu     sync.Mutex
	delays []time.Duration
	clock  *ManualClock
}

// NewSleepRecorder creates a SleepRecorder. When clock is non-nil each
// sleep advances it.
func NewSleepRecorder(clock ...*ManualClock) *SleepRecorder {
	s := &SleepRecorder{}
	if len(clock) > 0 {
		s.clock = clock[0]
	}
	return s
}

// Sleep satisfies resilience.Sleeper.
func (s *SleepRecorder) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	s.delays = append(s.delays, d)
	s.mu.Unlock()
	if s.clock != nil {
		s.clock.Advance(d)
	}
	return nil
}

// Delays returns the recorded delays in order.
func (s *SleepRecorder) Delays() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]time.Duration, len(s.delays))
	copy(out, s.delays)
	return out
}
