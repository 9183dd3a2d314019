package session

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/kbukum/tripcart/apiclient"
	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
	"github.com/kbukum/tripcart/notify"
)

// State is the authentication state of a Session.
type State int

const (
	// StateUnknown holds until Start has run.
	StateUnknown State = iota
	// StateAuthenticated means the stored identity was confirmed by the backend.
	StateAuthenticated
	// StateAnonymous means there is no confirmed identity.
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

var (
	// ErrNotAuthenticated is returned by operations that need a user.
	ErrNotAuthenticated = stderrors.New("session: not authenticated")
	// ErrKYCRequired is returned by RequireKYC for users without a KYC document.
	ErrKYCRequired = stderrors.New("session: KYC verification required")
)

// Session owns the identity mirror and the authentication state for one
// client process.
type Session struct {
	api      *marketplace.Client
	ids      *IdentityStore
	notifier notify.Notifier
	log      *logger.Logger
	now      func() time.Time

	mu       sync.RWMutex
	state    State
	identity *IdentityMirror
}

// Option configures a Session.
type Option func(*Session)

// WithNotifier sets where success notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Session) { s.notifier = n }
}

// WithLogger sets the logger. The default is the registered "session" logger.
func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l.WithComponent("session") }
}

// WithClock sets the clock used to stamp ConfirmedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates a Session in StateUnknown.
func New(api *marketplace.Client, ids *IdentityStore, opts ...Option) *Session {
	s := &Session{
		api:      api,
		ids:      ids,
		notifier: notify.Nop(),
		log:      logger.Get("session"),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Identity returns a copy of the current mirror, or nil when anonymous.
func (s *Session) Identity() *IdentityMirror {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil
	}
	m := *s.identity
	return &m
}

// UserID returns the authenticated user's id, or "".
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return ""
	}
	return s.identity.UserID
}

// IsAuthenticated reports whether the state is StateAuthenticated.
func (s *Session) IsAuthenticated() bool { return s.State() == StateAuthenticated }

func (s *Session) set(state State, m *IdentityMirror) {
	s.mu.Lock()
	prev := s.state
	s.state = state
	s.identity = m
	s.mu.Unlock()
	if prev != state {
		s.log.Debug("session state changed", logger.Fields("from", prev.String(), logger.FieldState, state.String()))
	}
}

// Start hydrates the mirror and re-confirms it with a profile fetch. No
// mirror means StateAnonymous. A failed confirmation clears the mirror,
// except when ctx was cancelled, which leaves both mirror and state alone.
func (s *Session) Start(ctx context.Context) (State, error) {
	m, err := s.ids.Hydrate(ctx)
	if err != nil {
		s.set(StateAnonymous, nil)
		return StateAnonymous, nil
	}
	if m == nil {
		s.set(StateAnonymous, nil)
		return StateAnonymous, nil
	}
	if err := s.confirm(ctx, m.UserID); err != nil {
		return s.State(), err
	}
	return StateAuthenticated, nil
}

// confirm fetches the profile of userID bypassing the cache, then persists
// it and moves to StateAuthenticated. On failure other than cancellation
// the mirror is cleared and the state moves to StateAnonymous.
func (s *Session) confirm(ctx context.Context, userID string) error {
	p, err := s.api.Auth.GetProfile(ctx, userID, apiclient.WithoutCache())
	if err != nil {
		if errors.IsKind(err, errors.KindAborted) {
			return err
		}
		s.log.Info("identity not confirmed, clearing", logger.Fields(
			logger.FieldUserID, userID,
			logger.FieldKind, string(errors.KindOf(err)),
		))
		if cerr := s.ids.Clear(ctx); cerr != nil {
			s.log.Error("failed to clear identity", logger.ErrorFields("confirm", cerr))
		}
		s.set(StateAnonymous, nil)
		return err
	}
	m := mirrorOf(p, userID, s.now())
	if err := s.ids.Persist(ctx, m); err != nil {
		return err
	}
	s.set(StateAuthenticated, m)
	return nil
}

// Login authenticates, fetches the profile and persists the mirror.
func (s *Session) Login(ctx context.Context, email, password string) (*IdentityMirror, error) {
	res, err := s.api.Auth.Login(ctx, marketplace.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	if res == nil || res.UserID == "" {
		return nil, fmt.Errorf("login: response carried no user id")
	}
	if err := s.confirm(ctx, res.UserID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, notify.Success("Success", "You have successfully logged in."))
	return s.Identity(), nil
}

// Signup creates the account and, once that has completed, logs in with
// the same credentials.
func (s *Session) Signup(ctx context.Context, in marketplace.SignupInput) (*IdentityMirror, error) {
	if _, err := s.api.Auth.Signup(ctx, in); err != nil {
		return nil, err
	}
	res, err := s.api.Auth.Login(ctx, marketplace.LoginInput{Email: in.Email, Password: in.Password})
	if err != nil {
		return nil, err
	}
	if res == nil || res.UserID == "" {
		return nil, fmt.Errorf("signup: login response carried no user id")
	}
	if err := s.confirm(ctx, res.UserID); err != nil {
		return nil, err
	}
	s.notifier.Notify(ctx, notify.Success("Account Created", "Your account has been successfully created."))
	return s.Identity(), nil
}

// Logout clears the mirror, the cookie jar and the response cache.
func (s *Session) Logout(ctx context.Context) error {
	var errs []error
	if err := s.ids.Clear(ctx); err != nil {
		errs = append(errs, err)
	}
	if err := s.api.Executor().ResetSession(); err != nil {
		errs = append(errs, fmt.Errorf("reset cookies: %w", err))
	}
	s.set(StateAnonymous, nil)
	s.notifier.Notify(ctx, notify.Success("Logged Out", "You have been successfully logged out."))
	return stderrors.Join(errs...)
}

// OAuthURL returns the provider redirect URL from the backend.
func (s *Session) OAuthURL(ctx context.Context, provider marketplace.OAuthProvider) (string, error) {
	return s.api.Auth.OAuthURL(ctx, provider)
}

// CompleteOAuth inspects the URL the provider redirected back to. Unless
// it carries auth=success nothing happens. Otherwise the startup logic
// runs again; when no mirror exists yet the user_id query value is
// confirmed instead.
func (s *Session) CompleteOAuth(ctx context.Context, returnURL string) (State, error) {
	u, err := url.Parse(returnURL)
	if err != nil {
		return s.State(), fmt.Errorf("parse return url: %w", err)
	}
	q := u.Query()
	if q.Get("auth") != "success" {
		return s.State(), nil
	}

	m, err := s.ids.Hydrate(ctx)
	if err == nil && m == nil {
		if userID := q.Get("user_id"); userID != "" {
			if err := s.confirm(ctx, userID); err != nil {
				return s.State(), err
			}
			s.notifier.Notify(ctx, notify.Success("Success", "You have successfully logged in."))
			return StateAuthenticated, nil
		}
	}
	return s.Start(ctx)
}

// RefreshProfile refetches the profile and updates the mirror.
func (s *Session) RefreshProfile(ctx context.Context) (*IdentityMirror, error) {
	userID := s.UserID()
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := s.confirm(ctx, userID); err != nil {
		return nil, err
	}
	return s.Identity(), nil
}

// UpdateProfile saves profile changes and updates the mirror.
func (s *Session) UpdateProfile(ctx context.Context, in marketplace.ProfileUpdate) (*IdentityMirror, error) {
	userID := s.UserID()
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	p, err := s.api.Auth.UpdateProfile(ctx, userID, in)
	if err != nil {
		return nil, err
	}
	m := mirrorOf(p, userID, s.now())
	if err := s.ids.Persist(ctx, m); err != nil {
		return nil, err
	}
	s.set(StateAuthenticated, m)
	s.notifier.Notify(ctx, notify.Success("Profile Updated", "Your profile has been successfully updated."))
	return s.Identity(), nil
}

// RequireKYC fails with ErrKYCRequired, and notifies the user, when the
// current identity has no KYC document.
func (s *Session) RequireKYC(ctx context.Context) error {
	m := s.Identity()
	if m == nil {
		return ErrNotAuthenticated
	}
	if !m.HasKYC() {
		s.notifier.Notify(ctx, notify.Failure("KYC Required", "Please complete KYC verification to post travel plans."))
		return ErrKYCRequired
	}
	return nil
}
