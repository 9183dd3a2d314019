package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newTestCache() (*Memory, *fakeClock) {
	clk := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewMemory(WithClock(clk)), clk
}

func TestMemory_SetGet(t *testing.T) {
	c, _ := newTestCache()
	c.Set("GET https://x/a", json.RawMessage(`{"a":1}`), time.Minute)

	got, ok := c.Get("GET https://x/a")
	if !ok {
		t.Fatal("expected hit")
	}
	if string(got) != `{"a":1}` {
		t.Errorf("unexpected payload %s", got)
	}
}

func TestMemory_Miss(t *testing.T) {
	c, _ := newTestCache()
	if _, ok := c.Get("GET https://x/none"); ok {
		t.Error("expected miss")
	}
}

func TestMemory_ExpiresAtTTL(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", json.RawMessage(`1`), 5*time.Minute)

	clk.Advance(5*time.Minute - time.Nanosecond)
	if _, ok := c.Get("k"); !ok {
		t.Fatal("expected hit just before TTL")
	}

	clk.Advance(time.Nanosecond)
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected miss at TTL")
	}
	if c.Len() != 0 {
		t.Errorf("expected lazy eviction on lookup, len=%d", c.Len())
	}
}

func TestMemory_NoSweepWithoutLookup(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", json.RawMessage(`1`), time.Second)
	clk.Advance(time.Hour)
	if c.Len() != 1 {
		t.Errorf("expected expired entry to stay until looked up, len=%d", c.Len())
	}
	e, ok := c.Entry("k")
	if !ok || e.ValidAt(clk.Now()) {
		t.Error("expected stored but invalid entry")
	}
}

func TestMemory_LastWriteWins(t *testing.T) {
	c, clk := newTestCache()
	c.Set("k", json.RawMessage(`1`), 10*time.Minute)
	clk.Advance(time.Minute)
	c.Set("k", json.RawMessage(`2`), time.Minute)

	got, _ := c.Get("k")
	if string(got) != "2" {
		t.Errorf("expected last write, got %s", got)
	}
	e, _ := c.Entry("k")
	if e.TTL != time.Minute {
		t.Errorf("expected TTL of last write, got %v", e.TTL)
	}
}

func TestMemory_NonPositiveTTLStoresNothing(t *testing.T) {
	c, _ := newTestCache()
	c.Set("k", json.RawMessage(`1`), 0)
	if c.Len() != 0 {
		t.Error("expected nothing stored")
	}
}

func TestMemory_PayloadIsCopied(t *testing.T) {
	c, _ := newTestCache()
	buf := []byte(`"abc"`)
	c.Set("k", buf, time.Minute)
	buf[1] = 'z'
	got, _ := c.Get("k")
	if string(got) != `"abc"` {
		t.Errorf("expected stored copy, got %s", got)
	}
}

func TestMemory_DeleteAndClear(t *testing.T) {
	c, _ := newTestCache()
	c.Set("a", json.RawMessage(`1`), time.Minute)
	c.Set("b", json.RawMessage(`2`), time.Minute)

	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Error("expected a deleted")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Errorf("expected empty cache, len=%d", c.Len())
	}
}

func TestMemory_Concurrent(t *testing.T) {
	c, _ := newTestCache()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			c.Set(key, json.RawMessage(`1`), time.Minute)
			c.Get(key)
		}(i)
	}
	wg.Wait()
	if c.Len() != 5 {
		t.Errorf("expected 5 keys, got %d", c.Len())
	}
}

func TestKey(t *testing.T) {
	if got := Key("", "https://x/a"); got != "GET https://x/a" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("POST", "https://x/a"); got != "POST https://x/a" {
		t.Errorf("Key = %q", got)
	}
}

func TestCacheable(t *testing.T) {
	for method, want := range map[string]bool{"": true, "GET": true, "POST": false, "PUT": false, "PATCH": false, "DELETE": false} {
		if got := Cacheable(method); got != want {
			t.Errorf("Cacheable(%q) = %v, want %v", method, got, want)
		}
	}
}
