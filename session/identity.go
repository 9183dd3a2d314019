// Package session tracks who is logged in. The identity mirror is a
// possibly stale copy of the user's profile kept in a store.Store under
// the key "user"; its presence, confirmed by a profile fetch, is what the
// client treats as being authenticated. The session credential itself is
// an http-only cookie the client never reads.
package session

import (
	"context"
	"fmt"
	"time"

	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/store"
)

// MirrorKey is the storage key of the identity mirror.
const MirrorKey = "user"

// IdentityMirror is the locally persisted copy of the authenticated user.
type IdentityMirror struct {
	marketplace.Profile
	ConfirmedAt time.Time `json:"confirmed_at"`
}

func mirrorOf(p *marketplace.Profile, userID string, at time.Time) *IdentityMirror {
	m := &IdentityMirror{Profile: *p, ConfirmedAt: at}
	if m.UserID == "" {
		m.UserID = userID
	}
	return m
}

// IdentityStore reads and writes the identity mirror.
type IdentityStore struct {
	store store.Store[IdentityMirror]
	log   *logger.Logger
}

// NewIdentityStore wraps s. A nil logger uses the "session" logger.
func NewIdentityStore(s store.Store[IdentityMirror], log *logger.Logger) *IdentityStore {
	if log == nil {
		log = logger.Get("session")
	}
	return &IdentityStore{store: s, log: log}
}

// Hydrate returns the persisted mirror, or nil when there is none. A
// record that cannot be read is removed and reported as an error.
func (s *IdentityStore) Hydrate(ctx context.Context) (*IdentityMirror, error) {
	m, err := s.store.Load(ctx, MirrorKey)
	if err != nil {
		s.log.Warn("discarding unreadable identity mirror", logger.ErrorFields("hydrate", err))
		if derr := s.store.Delete(ctx, MirrorKey); derr != nil {
			s.log.Error("failed to remove identity mirror", logger.ErrorFields("hydrate", derr))
		}
		return nil, fmt.Errorf("hydrate identity: %w", err)
	}
	if m != nil && m.UserID == "" {
		_ = s.store.Delete(ctx, MirrorKey)
		return nil, nil
	}
	return m, nil
}

// Persist overwrites the mirror.
func (s *IdentityStore) Persist(ctx context.Context, m *IdentityMirror) error {
	if m == nil || m.UserID == "" {
		return fmt.Errorf("persist identity: user id is required")
	}
	if err := s.store.Save(ctx, MirrorKey, m); err != nil {
		return fmt.Errorf("persist identity: %w", err)
	}
	return nil
}

// Clear removes the mirror.
func (s *IdentityStore) Clear(ctx context.Context) error {
	if err := s.store.Delete(ctx, MirrorKey); err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
