package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/tripcart/cache"
	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/httpclient"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/testutil"
)

type item struct {
	ID   string `json:"id"`
	Name string `json:"item_name"`
}

type harness struct {
	exec   *Executor
	rec    *testutil.Recorder
	sleeps *testutil.SleepRecorder
	clock  *testutil.ManualClock
	hits   *atomic.Int32
	srv    *httptest.Server
}

func newHarness(t *testing.T, h http.HandlerFunc, opts ...Option) *harness {
	t.Helper()
	hits := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := httpclient.New(httpclient.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	clock := testutil.NewManualClock(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	rec := testutil.NewRecorder()
	sleeps := testutil.NewSleepRecorder(clock)

	base := []Option{
		WithLogger(logger.Nop()),
		WithNotifier(rec),
		WithSleeper(sleeps.Sleep),
		WithCache(cache.NewMemory(cache.WithClock(clock))),
	}
	exec := New(client, append(base, opts...)...)
	return &harness{exec: exec, rec: rec, sleeps: sleeps, clock: clock, hits: hits, srv: srv}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func mustKind(t *testing.T, err error, want errors.Kind) *errors.Error {
	t.Helper()
	ne, ok := errors.As(err)
	if !ok {
		t.Fatalf("expected *errors.Error, got %T: %v", err, err)
	}
	if ne.Kind != want {
		t.Fatalf("expected kind %s, got %s (%s)", want, ne.Kind, ne.Message)
	}
	return ne
}

func TestExecute_DecodesJSON(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("expected JSON Accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON Content-Type header, got %q", r.Header.Get("Content-Type"))
		}
		writeJSON(w, http.StatusOK, []item{{ID: "r1", Name: "Matcha"}})
	})

	got, err := Execute[[]item](context.Background(), h.exec, "/shopping-requests")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Matcha" {
		t.Errorf("unexpected result %+v", got)
	}
	if h.rec.Len() != 0 {
		t.Errorf("expected no notifications, got %v", h.rec.All())
	}
}

func TestExecute_CacheHitWithinTTL(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, item{ID: "p1"})
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := Execute[item](ctx, h.exec, "/user-profile/u1"); err != nil {
			t.Fatalf("call %d: %v", i, err)
		}
		h.clock.Advance(time.Minute)
	}
	if n := h.hits.Load(); n != 1 {
		t.Errorf("expected one network call within TTL, got %d", n)
	}
}

func TestExecute_CacheMissAfterTTL(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, item{ID: "p1"})
	})
	ctx := context.Background()

	if _, err := Execute[item](ctx, h.exec, "/user-profile/u1", WithCacheTTL(30*time.Second)); err != nil {
		t.Fatal(err)
	}
	h.clock.Advance(30 * time.Second)
	if _, err := Execute[item](ctx, h.exec, "/user-profile/u1", WithCacheTTL(30*time.Second)); err != nil {
		t.Fatal(err)
	}
	if n := h.hits.Load(); n != 2 {
		t.Errorf("expected a second network call once the TTL elapsed, got %d", n)
	}
}

func TestExecute_CacheKeyIncludesQuery(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []item{{ID: r.URL.Query().Get("q")}})
	})
	ctx := context.Background()

	a, _ := Execute[[]item](ctx, h.exec, "/locations/suggestions", WithQuery("q", "par"))
	b, _ := Execute[[]item](ctx, h.exec, "/locations/suggestions", WithQuery("q", "ber"))
	if a[0].ID != "par" || b[0].ID != "ber" {
		t.Errorf("expected distinct cached results, got %v and %v", a, b)
	}
	if n := h.hits.Load(); n != 2 {
		t.Errorf("expected 2 network calls, got %d", n)
	}
}

func TestExecute_WithoutCache(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, item{ID: "p1"})
	})
	ctx := context.Background()

	_, _ = Execute[item](ctx, h.exec, "/user-profile/u1", WithoutCache())
	_, _ = Execute[item](ctx, h.exec, "/user-profile/u1", WithoutCache())
	if n := h.hits.Load(); n != 2 {
		t.Errorf("expected cache bypass, got %d calls", n)
	}
	if h.exec.Cache().Len() != 0 {
		t.Error("expected nothing stored when caching is bypassed")
	}
}

func TestExecute_MutationsAreNeverCached(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, item{ID: "r9"})
	})
	ctx := context.Background()
	body := map[string]any{"product_name": "Tea", "price": 12}

	for i := 0; i < 2; i++ {
		if _, err := Execute[item](ctx, h.exec, "/shopping-requests", WithMethod(http.MethodPost), WithBody(body)); err != nil {
			t.Fatal(err)
		}
	}
	if n := h.hits.Load(); n != 2 {
		t.Errorf("expected every POST to reach the network, got %d", n)
	}
	if h.exec.Cache().Len() != 0 {
		t.Errorf("expected empty cache after mutations, got %d entries", h.exec.Cache().Len())
	}
}

func TestExecute_FailedGetIsNotCached(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "db down"})
			return
		}
		writeJSON(w, http.StatusOK, item{ID: "ok"})
	})
	ctx := context.Background()

	_, err := Execute[item](ctx, h.exec, "/notifications/u1")
	mustKind(t, err, errors.KindServerError)
	if h.exec.Cache().Len() != 0 {
		t.Fatal("expected failure to leave the cache empty")
	}

	fail.Store(false)
	got, err := Execute[item](ctx, h.exec, "/notifications/u1")
	if err != nil || got.ID != "ok" {
		t.Errorf("expected fresh result after failure, got %+v, %v", got, err)
	}
}

func TestExecute_RateLimitBackoffThenSuccess(t *testing.T) {
	var calls atomic.Int32
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, item{ID: "done"})
	})

	got, err := Execute[item](context.Background(), h.exec, "/shopping-requests")
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if got.ID != "done" {
		t.Errorf("unexpected result %+v", got)
	}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}
	delays := h.sleeps.Delays()
	if len(delays) != len(want) {
		t.Fatalf("expected delays %v, got %v", want, delays)
	}
	for i := range want {
		if delays[i] != want[i] {
			t.Errorf("delay %d: expected %v, got %v", i, want[i], delays[i])
		}
	}
	if h.rec.Len() != 0 {
		t.Errorf("expected no notification when a retry succeeds, got %v", h.rec.All())
	}
}

func TestExecute_RateLimitExhausted(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := Execute[item](context.Background(), h.exec, "/shopping-requests")
	ne := mustKind(t, err, errors.KindRateLimited)
	if ne.Message != errors.MsgRateLimited {
		t.Errorf("unexpected message %q", ne.Message)
	}
	if n := h.hits.Load(); n != 4 {
		t.Errorf("expected 1 attempt plus 3 retries, got %d", n)
	}
	if n := h.rec.CountKind(errors.KindRateLimited); n != 1 {
		t.Errorf("expected exactly one notification, got %d", n)
	}
}

func TestExecute_ZeroRetries(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	_, err := Execute[item](context.Background(), h.exec, "/x", WithRetries(0))
	mustKind(t, err, errors.KindRateLimited)
	if n := h.hits.Load(); n != 1 {
		t.Errorf("expected a single attempt, got %d", n)
	}
	if len(h.sleeps.Delays()) != 0 {
		t.Errorf("expected no backoff, got %v", h.sleeps.Delays())
	}
}

func TestExecute_TimeoutIsTerminal(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	_, err := Execute[item](context.Background(), h.exec, "/travel-itineraries/suggest/r1", WithTimeout(30*time.Millisecond))
	ne := mustKind(t, err, errors.KindTimeout)
	if ne.Message != errors.MsgTimeout {
		t.Errorf("unexpected message %q", ne.Message)
	}
	if n := h.hits.Load(); n != 1 {
		t.Errorf("expected timeout not to be retried, got %d attempts", n)
	}
	if n := h.rec.Len(); n != 1 {
		t.Errorf("expected one notification, got %d", n)
	}
}

func TestExecute_CallerCancellation(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := Execute[item](ctx, h.exec, "/shopping-requests")
	ne := mustKind(t, err, errors.KindAborted)
	if ne.Severity() != errors.SeverityLow {
		t.Errorf("expected low severity, got %s", ne.Severity())
	}
	all := h.rec.All()
	if len(all) != 1 || all[0].Title != "Cancelled" {
		t.Errorf("expected one cancellation notice, got %v", all)
	}
}

func TestExecute_AlreadyCancelled(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, item{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Execute[item](ctx, h.exec, "/shopping-requests")
	mustKind(t, err, errors.KindAborted)
	if n := h.hits.Load(); n != 0 {
		t.Errorf("expected no network call, got %d", n)
	}
}

func TestExecute_BadRequestCarriesServerMessage(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"status": 400, "message": "Item name is required"})
	})

	_, err := Execute[item](context.Background(), h.exec, "/shopping-requests", WithMethod(http.MethodPost), WithBody(map[string]string{}))
	ne := mustKind(t, err, errors.KindBadRequest)
	if ne.Message != "Item name is required" {
		t.Errorf("unexpected message %q", ne.Message)
	}
	if ne.HTTPStatus != http.StatusBadRequest {
		t.Errorf("unexpected status %d", ne.HTTPStatus)
	}
	if n := h.hits.Load(); n != 1 {
		t.Errorf("expected 400 not to be retried, got %d", n)
	}
	last, _ := h.rec.Last()
	if last.Message != "Item name is required" {
		t.Errorf("expected notification to show the server message, got %q", last.Message)
	}
}

func TestExecute_BadRequestWithoutBodyUsesStatusText(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	})
	_, err := Execute[item](context.Background(), h.exec, "/x")
	ne := mustKind(t, err, errors.KindBadRequest)
	if ne.Message != http.StatusText(http.StatusBadRequest) {
		t.Errorf("unexpected message %q", ne.Message)
	}
}

func TestExecute_AuthFailures(t *testing.T) {
	tests := []struct {
		status int
		kind   errors.Kind
	}{
		{http.StatusUnauthorized, errors.KindUnauthorized},
		{http.StatusForbidden, errors.KindForbidden},
		{http.StatusBadGateway, errors.KindServerError},
		{http.StatusNotFound, errors.KindUnknown},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			})
			_, err := Execute[item](context.Background(), h.exec, "/user-profile/u1")
			mustKind(t, err, tc.kind)
			if h.rec.Len() != 1 {
				t.Errorf("expected one notification, got %d", h.rec.Len())
			}
		})
	}
}

func TestExecute_ConnectionFailure(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {})
	h.srv.Close()

	_, err := Execute[item](context.Background(), h.exec, "/shopping-requests")
	ne := mustKind(t, err, errors.KindUnknown)
	if ne.Message != errors.MsgGeneric {
		t.Errorf("unexpected message %q", ne.Message)
	}
}

func TestExecute_MalformedBody(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})
	_, err := Execute[item](context.Background(), h.exec, "/shopping-requests")
	mustKind(t, err, errors.KindUnknown)
	if h.exec.Cache().Len() != 0 {
		t.Error("expected malformed body not to be cached")
	}
}

func TestExecute_EmptyBody(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	got, err := Execute[*item](context.Background(), h.exec, "/analytics/track", WithMethod(http.MethodPost))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Errorf("expected zero value, got %+v", got)
	}
}

func TestExecute_MultipartOmitsJSONContentType(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		ct := r.Header.Get("Content-Type")
		if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
			t.Errorf("expected multipart content type, got %q", ct)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if r.FormValue("user_id") != "u1" {
			t.Errorf("expected user_id field, got %q", r.FormValue("user_id"))
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": "/files/kyc.pdf"})
	})

	body := httpclient.NewMultipartFile("document", "kyc.pdf", "application/pdf",
		strings.NewReader("%PDF-1.4"), map[string]string{"user_id": "u1"})
	_, err := Execute[map[string]string](context.Background(), h.exec, "/kyc/upload",
		WithMethod(http.MethodPost), WithMultipart(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_MultipartRetryResendsFile(t *testing.T) {
	var sizes []int64
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		_, fh, err := r.FormFile("doc")
		if err != nil {
			t.Errorf("form file: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		sizes = append(sizes, fh.Size)
		if len(sizes) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"url": "/files/passport.png"})
	})

	body := httpclient.NewMultipartFile("doc", "passport.png", "image/png",
		strings.NewReader("0123456789abcdef"), nil)
	_, err := Execute[map[string]string](context.Background(), h.exec, "/kyc",
		WithMethod(http.MethodPost), WithMultipart(body))
	if err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if len(sizes) != 2 || sizes[0] != 16 || sizes[1] != 16 {
		t.Errorf("expected 16 bytes on both attempts, got %v", sizes)
	}
	if delays := h.sleeps.Delays(); len(delays) != 1 || delays[0] != time.Second {
		t.Errorf("expected one 1s backoff, got %v", delays)
	}
}

func TestExecute_HeadersAndRequestID(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get(HeaderRequestID); got != "req-fixed" {
			t.Errorf("expected request id header, got %q", got)
		}
		if got := r.Header.Get("X-Client"); got != "cli" {
			t.Errorf("expected caller header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "text/plain" {
			t.Errorf("expected caller header to override Accept, got %q", got)
		}
		writeJSON(w, http.StatusOK, item{})
	}, WithRequestIDGenerator(func() string { return "req-fixed" }))

	_, err := Execute[item](context.Background(), h.exec, "/x",
		WithHeaders(map[string]string{"X-Client": "cli", "Accept": "text/plain"}))
	if err != nil {
		t.Fatal(err)
	}
}

func TestExecute_CookiesShared(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			http.SetCookie(w, &http.Cookie{Name: "token", Value: "abc", Path: "/"})
			writeJSON(w, http.StatusOK, item{ID: "u1"})
			return
		}
		c, err := r.Cookie("token")
		if err != nil || c.Value != "abc" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, item{ID: "profile"})
	})
	ctx := context.Background()

	if _, err := Execute[item](ctx, h.exec, "/login", WithMethod(http.MethodPost)); err != nil {
		t.Fatal(err)
	}
	if _, err := Execute[item](ctx, h.exec, "/user-profile/u1"); err != nil {
		t.Fatalf("expected cookie to be sent, got %v", err)
	}

	if err := h.exec.ResetSession(); err != nil {
		t.Fatal(err)
	}
	if h.exec.Cache().Len() != 0 {
		t.Error("expected reset to clear the cache")
	}
	_, err := Execute[item](ctx, h.exec, "/user-profile/u1")
	mustKind(t, err, errors.KindUnauthorized)
}

func TestExecute_ExecutorDefaults(t *testing.T) {
	h := newHarness(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}, WithDefaults(1, 0, 0), WithInitialBackoff(500*time.Millisecond))

	_, err := Execute[item](context.Background(), h.exec, "/x")
	mustKind(t, err, errors.KindRateLimited)
	delays := h.sleeps.Delays()
	if len(delays) != 1 || delays[0] != 500*time.Millisecond {
		t.Errorf("expected a single 500ms backoff, got %v", delays)
	}
}
