// Package store persists small typed records under string keys. The
// session package keeps the identity mirror in a Store so it survives
// process restarts when a durable backend is configured.
package store

import (
	"context"
	"sync"
)

// Store is typed key/value persistence. Load returns (nil, nil) when the
// key does not exist.
type Store[C any] interface {
	Load(ctx context.Context, key string) (*C, error)
	Save(ctx context.Context, key string, val *C) error
	Delete(ctx context.Context, key string) error
}

// Memory is a process-local Store. Values are copied on save and load so
// callers cannot mutate stored state.
type Memory[C any] struct {
	mu    sync.RWMutex
	items map[string]C
}

// NewMemory creates an empty Memory store.
func NewMemory[C any]() *Memory[C] {
	return &Memory[C]{items: make(map[string]C)}
}

func (s *Memory[C]) Load(_ context.Context, key string) (*C, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	return &v, nil
}

func (s *Memory[C]) Save(_ context.Context, key string, val *C) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if val == nil {
		delete(s.items, key)
		return nil
	}
	s.items[key] = *val
	return nil
}

func (s *Memory[C]) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.items, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys.
func (s *Memory[C]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

var _ Store[any] = (*Memory[any])(nil)
