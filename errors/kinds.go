package errors

// Kind classifies a failed API call.
type Kind string

const (
	// KindTimeout indicates the per-call timeout elapsed before a response arrived.
	KindTimeout Kind = "TIMEOUT"
	// KindUnauthorized indicates an HTTP 401.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindForbidden indicates an HTTP 403.
	KindForbidden Kind = "FORBIDDEN"
	// KindRateLimited indicates an HTTP 429 that survived the retry budget.
	KindRateLimited Kind = "RATE_LIMITED"
	// KindBadRequest indicates an HTTP 400.
	KindBadRequest Kind = "BAD_REQUEST"
	// KindServerError indicates an HTTP 5xx.
	KindServerError Kind = "SERVER_ERROR"
	// KindUnknown covers network failures, malformed bodies and any other status.
	KindUnknown Kind = "UNKNOWN"
	// KindAborted indicates the caller cancelled the request.
	KindAborted Kind = "ABORTED"
)

// User-facing messages for each kind.
const (
	MsgTimeout      = "Request timed out. Please try again."
	MsgUnauthorized = "Unauthorized. Please log in again."
	MsgForbidden    = "Forbidden. You do not have permission to perform this action."
	MsgRateLimited  = "Too many requests. Please try again later."
	MsgServerError  = "Server error. Please try again later."
	MsgAborted      = "Request was cancelled."
	MsgGeneric      = "Something went wrong. Please try again."
)

// Severity ranks how loudly a failure should be surfaced.
type Severity int

const (
	// SeverityLow is used for failures the caller initiated (cancellation).
	SeverityLow Severity = iota
	// SeverityHigh is used for every other failure.
	SeverityHigh
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityLow {
		return "low"
	}
	return "high"
}

// SeverityOf returns the severity associated with a kind.
func SeverityOf(k Kind) Severity {
	if k == KindAborted {
		return SeverityLow
	}
	return SeverityHigh
}

// AuthFailure reports whether the kind means the session is no longer valid.
func (k Kind) AuthFailure() bool {
	return k == KindUnauthorized || k == KindForbidden
}
