package fakebackend

import (
	"errors"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// claims are the session cookie claims.
type claims struct {
	gojwt.RegisteredClaims
	UserID     string `json:"user_id"`
	Generation int64  `json:"gen"`
}

type tokenService struct {
	secret     []byte
	ttl        time.Duration
	now        func() time.Time
	generation atomic.Int64
}

func newTokenService(secret string, ttl time.Duration, now func() time.Time) *tokenService {
	return &tokenService{secret: []byte(secret), ttl: ttl, now: now}
}

func (s *tokenService) issue(userID string) (string, error) {
	now := s.now()
	c := &claims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  gojwt.NewNumericDate(now),
			ExpiresAt: gojwt.NewNumericDate(now.Add(s.ttl)),
		},
		UserID:     userID,
		Generation: s.generation.Load(),
	}
	signed, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}
	return signed, nil
}

func (s *tokenService) parse(token string) (*claims, error) {
	c := &claims{}
	parsed, err := gojwt.ParseWithClaims(token, c, func(t *gojwt.Token) (any, error) {
		return s.secret, nil
	}, gojwt.WithValidMethods([]string{gojwt.SigningMethodHS256.Alg()}), gojwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	if !parsed.Valid {
		return nil, errors.New("invalid session token")
	}
	if c.Generation != s.generation.Load() {
		return nil, errors.New("session revoked")
	}
	return c, nil
}

func (s *tokenService) revokeAll() { s.generation.Add(1) }

type hasher struct {
	cost int
}

func newHasher(cost int) *hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &hasher{cost: cost}
}

func (h *hasher) hash(password string) (string, error) {
	if len(password) < 8 {
		return "", errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return "", errors.New("password must be at most 72 characters")
	}
	out, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(out), nil
}

func (h *hasher) verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

const ctxUserID = "user_id"

// requireSession rejects requests without a valid session cookie.
func (b *Backend) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			abort(c, http.StatusUnauthorized, "Authentication required")
			return
		}
		cl, err := b.tokens.parse(token)
		if err != nil {
			abort(c, http.StatusUnauthorized, "Session expired")
			return
		}
		c.Set(ctxUserID, cl.UserID)
		c.Next()
	}
}

// requireAdmin must run after requireSession.
func (b *Backend) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		b.mu.Lock()
		u, ok := b.users[c.GetString(ctxUserID)]
		admin := ok && u.profile.IsAdmin
		b.mu.Unlock()
		if !admin {
			abort(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func (b *Backend) setSessionCookie(c *gin.Context, userID string) error {
	token, err := b.tokens.issue(userID)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(b.tokens.ttl.Seconds()),
	})
	return nil
}

// abort writes the {status, message} error body the client expects.
func abort(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"status": status, "message": message})
}
