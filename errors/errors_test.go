package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestError_Error_WithStatus(t *testing.T) {
	err := New(KindBadRequest, http.StatusBadRequest, "missing item name")
	got := err.Error()
	if !strings.Contains(got, "HTTP 400") {
		t.Errorf("expected status in message, got %q", got)
	}
	if !strings.Contains(got, "missing item name") {
		t.Errorf("expected message in error string, got %q", got)
	}
}

func TestError_Error_WithoutStatus(t *testing.T) {
	err := New(KindTimeout, 0, MsgTimeout)
	if strings.Contains(err.Error(), "HTTP") {
		t.Errorf("did not expect HTTP status in %q", err.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: connection refused")
	err := New(KindUnknown, 0, MsgGeneric).WithCause(cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected errors.Is to find the cause")
	}
}

func TestAs_Wrapped(t *testing.T) {
	inner := New(KindForbidden, http.StatusForbidden, MsgForbidden)
	wrapped := fmt.Errorf("load profile: %w", inner)

	got, ok := As(wrapped)
	if !ok {
		t.Fatal("expected As to find *Error")
	}
	if got != inner {
		t.Error("expected the same *Error instance")
	}
}

func TestAs_NotNormalized(t *testing.T) {
	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("expected As to fail for a plain error")
	}
}

func TestKindOf(t *testing.T) {
	if k := KindOf(New(KindRateLimited, 429, MsgRateLimited)); k != KindRateLimited {
		t.Errorf("expected RATE_LIMITED, got %s", k)
	}
	if k := KindOf(fmt.Errorf("plain")); k != KindUnknown {
		t.Errorf("expected UNKNOWN for plain error, got %s", k)
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", New(KindUnauthorized, 401, MsgUnauthorized))
	if !IsKind(err, KindUnauthorized) {
		t.Error("expected IsKind to match UNAUTHORIZED")
	}
	if IsKind(err, KindForbidden) {
		t.Error("did not expect IsKind to match FORBIDDEN")
	}
}

func TestSeverityOf(t *testing.T) {
	tests := []struct {
		kind Kind
		want Severity
	}{
		{KindAborted, SeverityLow},
		{KindTimeout, SeverityHigh},
		{KindServerError, SeverityHigh},
		{KindUnknown, SeverityHigh},
	}
	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			if got := SeverityOf(tc.kind); got != tc.want {
				t.Errorf("SeverityOf(%s) = %s, want %s", tc.kind, got, tc.want)
			}
		})
	}
}

func TestKind_AuthFailure(t *testing.T) {
	if !KindUnauthorized.AuthFailure() || !KindForbidden.AuthFailure() {
		t.Error("expected 401/403 kinds to be auth failures")
	}
	if KindServerError.AuthFailure() {
		t.Error("server error is not an auth failure")
	}
}

func TestParseServerMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message only", `{"message":"Item name is required"}`, "Item name is required"},
		{"status and message", `{"status":400,"message":" bad date "}`, "bad date"},
		{"no message", `{"status":400}`, ""},
		{"not json", `<html>oops</html>`, ""},
		{"empty", ``, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseServerMessage([]byte(tc.body)); got != tc.want {
				t.Errorf("ParseServerMessage(%q) = %q, want %q", tc.body, got, tc.want)
			}
		})
	}
}
