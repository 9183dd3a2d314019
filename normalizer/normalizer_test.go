package normalizer

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/httpclient"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/notify"
)

func statusErr(status int, body string) error {
	return httpclient.ClassifyStatusCode(status, []byte(body))
}

func TestNormalize_Mapping(t *testing.T) {
	tests := []struct {
		name   string
		raw    error
		kind   errors.Kind
		status int
		msg    string
	}{
		{"deadline", context.DeadlineExceeded, errors.KindTimeout, 0, errors.MsgTimeout},
		{"transport timeout", httpclient.NewTimeoutError(fmt.Errorf("i/o timeout")), errors.KindTimeout, 0, errors.MsgTimeout},
		{"cancelled", context.Canceled, errors.KindAborted, 0, errors.MsgAborted},
		{"transport cancelled", httpclient.NewCanceledError(context.Canceled), errors.KindAborted, 0, errors.MsgAborted},
		{"401", statusErr(401, `{"message":"token expired"}`), errors.KindUnauthorized, 401, errors.MsgUnauthorized},
		{"403", statusErr(403, ``), errors.KindForbidden, 403, errors.MsgForbidden},
		{"429", statusErr(429, ``), errors.KindRateLimited, 429, errors.MsgRateLimited},
		{"400 with message", statusErr(400, `{"status":400,"message":"Price must be positive"}`), errors.KindBadRequest, 400, "Price must be positive"},
		{"400 without body", statusErr(400, ``), errors.KindBadRequest, 400, "Bad Request"},
		{"500", statusErr(500, `{"message":"db down"}`), errors.KindServerError, 500, errors.MsgServerError},
		{"502", statusErr(502, ``), errors.KindServerError, 502, errors.MsgServerError},
		{"404", statusErr(404, `{"message":"User not found"}`), errors.KindUnknown, 404, "User not found"},
		{"409 no body", statusErr(409, ``), errors.KindUnknown, 409, "Conflict"},
		{"connection", httpclient.NewConnectionError(fmt.Errorf("connection refused")), errors.KindUnknown, 0, errors.MsgGeneric},
		{"decode", httpclient.NewDecodeError(200, []byte("<html>"), fmt.Errorf("invalid character")), errors.KindUnknown, 200, errors.MsgGeneric},
		{"plain", fmt.Errorf("boom"), errors.KindUnknown, 0, errors.MsgGeneric},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			if got.Kind != tc.kind {
				t.Errorf("kind = %s, want %s", got.Kind, tc.kind)
			}
			if got.HTTPStatus != tc.status {
				t.Errorf("status = %d, want %d", got.HTTPStatus, tc.status)
			}
			if got.Message != tc.msg {
				t.Errorf("message = %q, want %q", got.Message, tc.msg)
			}
			if !stderrors.Is(got, tc.raw) {
				t.Error("expected raw error to stay in the chain")
			}
		})
	}
}

func TestNormalize_TimeoutWinsOverStatus(t *testing.T) {
	raw := fmt.Errorf("attempt: %w", context.DeadlineExceeded)
	if got := Normalize(raw); got.Kind != errors.KindTimeout {
		t.Errorf("expected timeout, got %s", got.Kind)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	raw := statusErr(400, `{"message":"bad date"}`)
	a, b := Normalize(raw), Normalize(raw)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected equal results, got %+v and %+v", a, b)
	}
	if again := Normalize(a); again != a {
		t.Error("expected a normalized error to be returned unchanged")
	}
	if wrapped := Normalize(fmt.Errorf("ctx: %w", a)); wrapped != a {
		t.Error("expected a wrapped normalized error to be unwrapped")
	}
}

func TestNormalize_Nil(t *testing.T) {
	if Normalize(nil) != nil {
		t.Error("expected nil")
	}
}

func TestNormalize_KeepsServerMessage(t *testing.T) {
	got := Normalize(statusErr(500, `{"message":"db down"}`))
	if got.ServerMessage != "db down" {
		t.Errorf("expected server message kept for diagnostics, got %q", got.ServerMessage)
	}
}

func TestReporter_LogsAndNotifiesOnce(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "tripcart", &buf)
	var got []notify.Notification
	r := NewReporter(log, notify.Func(func(_ context.Context, n notify.Notification) { got = append(got, n) }))

	n := r.NormalizeAndReport(context.Background(), statusErr(http.StatusForbidden, ``), logger.Fields(logger.FieldPath, "/admin/disputes"))
	if n.Kind != errors.KindForbidden {
		t.Fatalf("unexpected kind %s", n.Kind)
	}
	if len(got) != 1 {
		t.Fatalf("expected exactly one notification, got %d", len(got))
	}
	if got[0].Message != errors.MsgForbidden || got[0].Variant != notify.VariantDestructive {
		t.Errorf("unexpected notification %+v", got[0])
	}
	out := buf.String()
	if !strings.Contains(out, `"level":"error"`) || !strings.Contains(out, `"path":"/admin/disputes"`) {
		t.Errorf("unexpected log output %q", out)
	}
}

func TestReporter_AbortedIsLowSeverity(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "tripcart", &buf)
	count := 0
	r := NewReporter(log, notify.Func(func(_ context.Context, n notify.Notification) {
		count++
		if n.Severity != errors.SeverityLow {
			t.Errorf("expected low severity, got %s", n.Severity)
		}
	}))

	r.NormalizeAndReport(context.Background(), context.Canceled, nil)
	if count != 1 {
		t.Errorf("expected one notification, got %d", count)
	}
	if !strings.Contains(buf.String(), `"level":"warn"`) {
		t.Errorf("expected warn level, got %q", buf.String())
	}
}

func TestReporter_NilErrorIsIgnored(t *testing.T) {
	count := 0
	r := NewReporter(logger.Nop(), notify.Func(func(context.Context, notify.Notification) { count++ }))
	r.Report(context.Background(), nil, nil)
	if count != 0 {
		t.Error("expected no notification for nil")
	}
}
