// Package fakebackend is an in-memory marketplace backend built on gin. It
// issues JWT session cookies, hashes passwords with bcrypt and can be told
// to fail or stall specific routes, which makes it suitable for session
// and end-to-end tests as well as local demos of the CLI.
//
//	b := fakebackend.New()
//	srv := httptest.NewServer(b.Handler())
//	b.Inject(http.MethodGet, "/shopping-requests", fakebackend.Fault{Status: 429, Times: 2})
package fakebackend

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/marketplace"
)

// CookieName is the session cookie set by login.
const CookieName = "token"

type user struct {
	profile      marketplace.Profile
	passwordHash string
}

type order struct {
	marketplace.PaymentOrder
	matchID string
	payerID string
}

// Backend holds all marketplace state in memory.
type Backend struct {
	mu            sync.Mutex
	users         map[string]*user
	byEmail       map[string]string
	requests      []marketplace.ShoppingRequest
	itineraries   []marketplace.TravelItinerary
	matches       map[string]*marketplace.Match
	orders        map[string]*order
	transactions  map[string][]marketplace.Transaction
	notifications map[string][]marketplace.Notification
	disputes      []marketplace.Dispute
	events        []marketplace.Event

	tokens  *tokenService
	hasher  *hasher
	faults  *faultSet
	seen    *requestLog
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
	secret  string
	engine  *gin.Engine
	baseURL string
}

// Option configures a Backend.
type Option func(*Backend)

// WithSecret sets the key that signs session cookies and payments.
func WithSecret(secret string) Option {
	return func(b *Backend) { b.secret = secret }
}

// WithBcryptCost sets the password hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(b *Backend) { b.hasher = newHasher(cost) }
}

func WithLogger(l *logger.Logger) Option {
	return func(b *Backend) { b.log = l.WithComponent("fakebackend") }
}

// WithClock sets the clock used for timestamps and token expiry.
func WithClock(now func() time.Time) Option {
	return func(b *Backend) { b.now = now }
}

// WithBaseURL sets the public URL used in OAuth redirect URLs.
func WithBaseURL(u string) Option {
	return func(b *Backend) { b.baseURL = u }
}

// New creates an empty backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		users:         make(map[string]*user),
		byEmail:       make(map[string]string),
		matches:       make(map[string]*marketplace.Match),
		orders:        make(map[string]*order),
		transactions:  make(map[string][]marketplace.Transaction),
		notifications: make(map[string][]marketplace.Notification),
		faults:        newFaultSet(),
		seen:          &requestLog{},
		log:           logger.Get("fakebackend"),
		now:           time.Now,
		newID:         uuid.NewString,
		secret:        "tripcart-dev-secret",
		baseURL:       "http://localhost:8080",
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.hasher == nil {
		b.hasher = newHasher(0)
	}
	b.tokens = newTokenService(b.secret, 24*time.Hour, b.now)
	b.engine = b.routes()
	return b
}

// Handler returns the HTTP handler serving the API.
func (b *Backend) Handler() http.Handler { return b.engine }

// SetBaseURL updates the public URL once the listener address is known.
func (b *Backend) SetBaseURL(u string) {
	b.mu.Lock()
	b.baseURL = u
	b.mu.Unlock()
}

// Inject makes requests to method+path fail or stall. See Fault.
func (b *Backend) Inject(method, path string, f Fault) { b.faults.add(method, path, f) }

// ClearFaults removes every injected fault.
func (b *Backend) ClearFaults() { b.faults.clear() }

// Hits returns how many requests reached method+path, faults included.
func (b *Backend) Hits(method, path string) int { return b.seen.count(method, path) }

// RequestIDs returns the X-Request-ID values seen, in arrival order.
func (b *Backend) RequestIDs() []string { return b.seen.ids() }

// RevokeSessions invalidates every issued session cookie.
func (b *Backend) RevokeSessions() { b.tokens.revokeAll() }

// CreateUser registers a user directly and returns its id.
func (b *Backend) CreateUser(fullName, email, password string, admin bool) (string, error) {
	hash, err := b.hasher.hash(password)
	if err != nil {
		return "", err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.addUserLocked(fullName, email, hash, admin), nil
}

func (b *Backend) addUserLocked(fullName, email, hash string, admin bool) string {
	id := b.newID()
	b.users[id] = &user{
		profile: marketplace.Profile{
			UserID:    id,
			FullName:  fullName,
			Email:     email,
			Available: true,
			IsAdmin:   admin,
		},
		passwordHash: hash,
	}
	b.byEmail[email] = id
	return id
}

// SetKYC records a KYC document for userID.
func (b *Backend) SetKYC(userID, documentURL string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[userID]; ok {
		u.profile.KYCDocumentURL = documentURL
		u.profile.KYCStatus = "approved"
	}
}

// Events returns the analytics events received.
func (b *Backend) Events() []marketplace.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]marketplace.Event, len(b.events))
	copy(out, b.events)
	return out
}

func (b *Backend) notifyLocked(userID, kind, title, msg, related string) {
	b.notifications[userID] = append(b.notifications[userID], marketplace.Notification{
		ID:        b.newID(),
		UserID:    userID,
		Title:     title,
		Message:   msg,
		Type:      kind,
		RelatedID: related,
		CreatedAt: b.now().UTC(),
	})
}
