package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/kbukum/tripcart/logger"
)

type mirror struct {
	UserID   string `json:"user_id"`
	FullName string `json:"full_name,omitempty"`
}

func newTestClient(t *testing.T) (*Client, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)

	client, err := New(Config{Enabled: true, Addr: mini.Addr()}, logger.Nop())
	if err != nil {
		t.Fatalf("failed to create redis client: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, mini
}

func TestNew_Disabled(t *testing.T) {
	if _, err := New(Config{Addr: "localhost:6379"}, logger.Nop()); err == nil {
		t.Error("expected error for disabled redis")
	}
}

func TestConfig_Validate(t *testing.T) {
	c := Config{Enabled: true}
	c.ApplyDefaults()
	if err := c.Validate(); err == nil {
		t.Error("expected error for missing addr")
	}
	c.Addr = "localhost:6379"
	c.ReadTimeout = "soon"
	if err := c.Validate(); err == nil {
		t.Error("expected error for unparseable timeout")
	}
	c.ReadTimeout = "1s"
	if err := c.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if c.KeyPrefix != "tripcart" {
		t.Errorf("expected default key prefix, got %q", c.KeyPrefix)
	}
}

func TestClient_Ping(t *testing.T) {
	client, _ := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}

func TestTypedStore_SaveAndLoad(t *testing.T) {
	client, _ := newTestClient(t)
	s := NewTypedStore[mirror](client, "tripcart")
	ctx := context.Background()

	if err := s.Save(ctx, "user", &mirror{UserID: "u1", FullName: "Ada"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := s.Load(ctx, "user")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got == nil || got.UserID != "u1" || got.FullName != "Ada" {
		t.Fatalf("unexpected value %+v", got)
	}
}

func TestTypedStore_LoadMissing(t *testing.T) {
	client, _ := newTestClient(t)
	got, err := NewTypedStore[mirror](client, "tripcart").Load(context.Background(), "user")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing key, got %+v", got)
	}
}

func TestTypedStore_LoadCorrupt(t *testing.T) {
	client, mini := newTestClient(t)
	_ = mini.Set("tripcart:user", "{not json")
	if _, err := NewTypedStore[mirror](client, "tripcart").Load(context.Background(), "user"); err == nil {
		t.Error("expected unmarshal error")
	}
}

func TestTypedStore_DeleteAndSaveNil(t *testing.T) {
	client, mini := newTestClient(t)
	s := NewTypedStore[mirror](client, "tripcart")
	ctx := context.Background()

	_ = s.Save(ctx, "user", &mirror{UserID: "u1"})
	if err := s.Delete(ctx, "user"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if mini.Exists("tripcart:user") {
		t.Error("expected key to be removed")
	}

	_ = s.Save(ctx, "user", &mirror{UserID: "u1"})
	if err := s.Save(ctx, "user", nil); err != nil {
		t.Fatal(err)
	}
	if mini.Exists("tripcart:user") {
		t.Error("expected nil save to remove the key")
	}
}

func TestTypedStore_TTL(t *testing.T) {
	client, mini := newTestClient(t)
	s := NewTypedStore[mirror](client, "tripcart", WithTTL(2*time.Second))
	ctx := context.Background()

	if err := s.Save(ctx, "user", &mirror{UserID: "u1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	mini.FastForward(3 * time.Second)

	got, err := s.Load(ctx, "user")
	if err != nil {
		t.Fatalf("Load after TTL failed: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil after TTL expiration, got %+v", got)
	}
}

func TestTypedStore_KeyPrefix(t *testing.T) {
	client, mini := newTestClient(t)
	ctx := context.Background()

	_ = NewTypedStore[mirror](client, "myprefix").Save(ctx, "user", &mirror{UserID: "u1"})
	if raw, err := mini.Get("myprefix:user"); err != nil || raw == "" {
		t.Fatalf("expected prefixed key, got %q, %v", raw, err)
	}

	_ = NewTypedStore[mirror](client, "").Save(ctx, "bare", &mirror{UserID: "u1"})
	if !mini.Exists("bare") {
		t.Error("expected bare key without prefix")
	}
}

func TestGetJSON_SetJSON(t *testing.T) {
	client, _ := newTestClient(t)
	ctx := context.Background()

	if err := client.SetJSON(ctx, "json-key", mirror{UserID: "u7"}, 0); err != nil {
		t.Fatalf("SetJSON failed: %v", err)
	}
	var got mirror
	if err := client.GetJSON(ctx, "json-key", &got); err != nil {
		t.Fatalf("GetJSON failed: %v", err)
	}
	if got.UserID != "u7" {
		t.Fatalf("unexpected value %+v", got)
	}
	if err := client.GetJSON(ctx, "missing", &got); err == nil {
		t.Error("expected error for missing key")
	}
}
