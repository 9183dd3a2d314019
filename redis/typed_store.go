package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kbukum/tripcart/store"
)

// TypedStore keeps JSON-serialized values of type C in Redis.
type TypedStore[C any] struct {
	client    *Client
	keyPrefix string
	ttl       time.Duration
}

// StoreOption configures a TypedStore.
type StoreOption func(*typedStoreOptions)

type typedStoreOptions struct {
	ttl time.Duration
}

// WithTTL expires saved values after d. The default is no expiry.
func WithTTL(d time.Duration) StoreOption {
	return func(o *typedStoreOptions) { o.ttl = d }
}

// NewTypedStore creates a TypedStore. Keys are written as prefix:key.
func NewTypedStore[C any](client *Client, keyPrefix string, opts ...StoreOption) *TypedStore[C] {
	o := typedStoreOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	return &TypedStore[C]{client: client, keyPrefix: keyPrefix, ttl: o.ttl}
}

func (s *TypedStore[C]) fullKey(key string) string {
	if s.keyPrefix == "" {
		return key
	}
	return s.keyPrefix + ":" + key
}

// Load returns (nil, nil) when the key does not exist.
func (s *TypedStore[C]) Load(ctx context.Context, key string) (*C, error) {
	raw, err := s.client.Get(ctx, s.fullKey(key))
	if errors.Is(err, goredis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("typed store load %q: %w", key, err)
	}

	var val C
	if err := json.Unmarshal([]byte(raw), &val); err != nil {
		return nil, fmt.Errorf("typed store unmarshal %q: %w", key, err)
	}
	return &val, nil
}

// Save stores val as JSON. A nil val deletes the key.
func (s *TypedStore[C]) Save(ctx context.Context, key string, val *C) error {
	if val == nil {
		return s.Delete(ctx, key)
	}
	if err := s.client.SetJSON(ctx, s.fullKey(key), val, s.ttl); err != nil {
		return fmt.Errorf("typed store save %q: %w", key, err)
	}
	return nil
}

func (s *TypedStore[C]) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.fullKey(key)); err != nil {
		return fmt.Errorf("typed store delete %q: %w", key, err)
	}
	return nil
}

var _ store.Store[any] = (*TypedStore[any])(nil)
