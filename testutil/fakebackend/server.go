package fakebackend

import (
	"net/http/httptest"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/kbukum/tripcart/logger"
)

// Start runs a backend on an httptest server that is closed when t ends.
// Passwords are hashed at bcrypt.MinCost unless opts say otherwise.
func Start(t testing.TB, opts ...Option) (*Backend, *httptest.Server) {
	t.Helper()
	opts = append([]Option{WithBcryptCost(bcrypt.MinCost), WithLogger(logger.Nop())}, opts...)
	b := New(opts...)
	srv := httptest.NewServer(b.Handler())
	t.Cleanup(srv.Close)
	b.SetBaseURL(srv.URL)
	return b, srv
}
