package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/notify"
)

func TestRecorder(t *testing.T) {
	r := NewRecorder()
	ctx := context.Background()
	r.Notify(ctx, notify.Success("Logged In", "hi"))
	r.Notify(ctx, notify.FromError(errors.New(errors.KindTimeout, 0, errors.MsgTimeout)))

	if r.Len() != 2 {
		t.Fatalf("expected 2, got %d", r.Len())
	}
	if len(r.Errors()) != 1 || r.CountKind(errors.KindTimeout) != 1 {
		t.Errorf("unexpected errors %v", r.Errors())
	}
	last, ok := r.Last()
	if !ok || last.Kind != errors.KindTimeout {
		t.Errorf("unexpected last %+v", last)
	}
	r.Reset()
	if _, ok := r.Last(); ok {
		t.Error("expected empty recorder")
	}
}

func TestManualClockAndSleepRecorder(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	clk := NewManualClock(start)
	s := NewSleepRecorder(clk)

	if err := s.Sleep(context.Background(), 2*time.Second); err != nil {
		t.Fatal(err)
	}
	if got := clk.Now().Sub(start); got != 2*time.Second {
		t.Errorf("expected clock advanced by 2s, got %v", got)
	}
	if d := s.Delays(); len(d) != 1 || d[0] != 2*time.Second {
		t.Errorf("unexpected delays %v", d)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.Sleep(ctx, time.Second); err == nil {
		t.Error("expected cancelled sleep to fail")
	}
}
