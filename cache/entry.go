package cache

import (
	"encoding/json"
	"net/http"
	"time"
)

// Entry is a cached response payload.
type Entry struct {
	Key      string
	Payload  json.RawMessage
	StoredAt time.Time
	TTL      time.Duration
}

// ValidAt reports whether the entry may be served at now.
func (e *Entry) ValidAt(now time.Time) bool {
	return now.Sub(e.StoredAt) < e.TTL
}

// Key builds the cache key for a request: method and absolute URL.
// An empty method is treated as GET.
func Key(method, url string) string {
	if method == "" {
		method = http.MethodGet
	}
	return method + " " + url
}

// Cacheable reports whether responses to method may be cached.
func Cacheable(method string) bool {
	return method == "" || method == http.MethodGet
}
