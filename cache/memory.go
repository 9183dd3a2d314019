package cache

import (
	"encoding/json"
	"sync"
	"time"
)

// Cache is the response cache used by the request executor.
type Cache interface {
	Get(key string) (json.RawMessage, bool)
	Set(key string, payload json.RawMessage, ttl time.Duration)
	Delete(key string)
	Clear()
	Len() int
}

// Clock returns the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock.
var SystemClock Clock = systemClock{}

// Memory is an in-process Cache. Concurrent writers to the same key are
// last-write-wins.
type Memory struct {
	mu      sync.Mutex
	clock   Clock
	entries map[string]*Entry
}

// Option configures a Memory cache.
type Option func(*Memory)

// WithClock sets the clock used to stamp and expire entries.
func WithClock(c Clock) Option {
	return func(m *Memory) { m.clock = c }
}

// NewMemory creates an empty in-memory cache.
func NewMemory(opts ...Option) *Memory {
	m := &Memory{
		clock:   SystemClock,
		entries: make(map[string]*Entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the payload for key if present and not expired. An expired
// entry is evicted.
func (m *Memory) Get(key string) (json.RawMessage, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if !e.ValidAt(m.clock.Now()) {
		delete(m.entries, key)
		return nil, false
	}
	return e.Payload, true
}

// Entry returns a copy of the stored entry for key, expired or not.
func (m *Memory) Entry(key string) (Entry, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[key]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Set stores payload under key. A non-positive ttl stores nothing.
func (m *Memory) Set(key string, payload json.RawMessage, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	stored := make(json.RawMessage, len(payload))
	copy(stored, payload)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = &Entry{
		Key:      key,
		Payload:  stored,
		StoredAt: m.clock.Now(),
		TTL:      ttl,
	}
}

// Delete removes key.
func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
}

// Clear removes every entry.
func (m *Memory) Clear() {
	m.mu.Lock()
	m.entries = make(map[string]*Entry)
	m.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones not
// yet evicted.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

var _ Cache = (*Memory)(nil)
