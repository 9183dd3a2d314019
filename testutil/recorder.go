package testutil

import (
	"context"
	"sync"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/notify"
)

// Recorder is a notify.Notifier that keeps every notification.
type Recorder struct {
	mu    sync.Mutex
	items []notify.Notification
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Notify(_ context.Context, n notify.Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications.
func (r *Recorder) All() []notify.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notify.Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Len returns the number of recorded notifications.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Errors returns the notifications raised for normalized errors.
func (r *Recorder) Errors() []notify.Notification {
	var out []notify.Notification
	for _, n := range r.All() {
		if n.Kind != "" {
			out = append(out, n)
		}
	}
	return out
}

// CountKind returns how many error notifications had the given kind.
func (r *Recorder) CountKind(kind errors.Kind) int {
	c := 0
	for _, n := range r.Errors() {
		if n.Kind == kind {
			c++
		}
	}
	return c
}

// Last returns the most recent notification.
func (r *Recorder) Last() (notify.Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return notify.Notification{}, false
	}
	return r.items[len(r.items)-1], true
}

// Reset forgets every recorded notification.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}
