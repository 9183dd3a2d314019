package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kbukum/tripcart/config"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/redis"
	"github.com/kbukum/tripcart/session"
	"github.com/kbukum/tripcart/store"
)

// openIdentityStore returns the store the identity mirror lives in and a
// function releasing it.
func openIdentityStore(ctx context.Context, cfg config.IdentityConfig, log *logger.Logger) (store.Store[session.IdentityMirror], func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.IdentityBackendMemory:
		return store.NewMemory[session.IdentityMirror](), noop, nil
	case config.IdentityBackendRedis:
		client, err := redis.New(cfg.Redis, log.WithComponent("redis"))
		if err != nil {
			return nil, nil, err
		}
		if err := client.Ping(ctx); err != nil {
			_ = client.Close()
			return nil, nil, err
		}
		return redis.NewTypedStore[session.IdentityMirror](client, "identity"), client.Close, nil
	default:
		dir := cfg.Path
		if dir == "" {
			base, err := os.UserConfigDir()
			if err != nil {
				return nil, nil, fmt.Errorf("locate identity directory: %w", err)
			}
			dir = filepath.Join(base, "tripcart")
		}
		return store.NewFile[session.IdentityMirror](dir), noop, nil
	}
}
