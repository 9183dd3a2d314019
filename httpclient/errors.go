package httpclient

import (
	"errors"
	"fmt"
	"net/http"

	tcerrors "github.com/kbukum/tripcart/errors"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates the request deadline passed before a response arrived.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeCanceled indicates the caller cancelled the request.
	ErrCodeCanceled
	// ErrCodeConnection indicates a connection failure (refused, DNS, reset).
	ErrCodeConnection
	// ErrCodeUnauthorized indicates HTTP 401.
	ErrCodeUnauthorized
	// ErrCodeForbidden indicates HTTP 403.
	ErrCodeForbidden
	// ErrCodeNotFound indicates HTTP 404.
	ErrCodeNotFound
	// ErrCodeRateLimit indicates HTTP 429.
	ErrCodeRateLimit
	// ErrCodeBadRequest indicates HTTP 400.
	ErrCodeBadRequest
	// ErrCodeClient indicates any other 4xx status.
	ErrCodeClient
	// ErrCodeServer indicates a 5xx status.
	ErrCodeServer
	// ErrCodeDecode indicates a 2xx response whose body is not valid JSON.
	ErrCodeDecode
	// ErrCodeInvalidRequest indicates the request could not be built.
	ErrCodeInvalidRequest
)

var codeNames = map[ErrorCode]string{
	ErrCodeTimeout:        "timeout",
	ErrCodeCanceled:       "canceled",
	ErrCodeConnection:     "connection",
	ErrCodeUnauthorized:   "unauthorized",
	ErrCodeForbidden:      "forbidden",
	ErrCodeNotFound:       "not_found",
	ErrCodeRateLimit:      "rate_limit",
	ErrCodeBadRequest:     "bad_request",
	ErrCodeClient:         "client",
	ErrCodeServer:         "server",
	ErrCodeDecode:         "decode",
	ErrCodeInvalidRequest: "invalid_request",
}

// String returns the error code name.
func (c ErrorCode) String() string {
	if n, ok := codeNames[c]; ok {
		return n
	}
	return "unknown"
}

// Error is a structured HTTP client error with classification.
type Error struct {
	// StatusCode is the HTTP status code (0 for connection-level errors).
	StatusCode int
	// Code classifies the error.
	Code ErrorCode
	// Message describes the error.
	Message string
	// ServerMessage is the "message" field of a JSON error body, if any.
	ServerMessage string
	// Body is the original response body (may be nil).
	Body []byte
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewCanceledError creates a cancellation error.
func NewCanceledError(err error) *Error {
	return &Error{Code: ErrCodeCanceled, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewDecodeError creates an error for a response body that failed to decode.
func NewDecodeError(statusCode int, body []byte, err error) *Error {
	return &Error{
		StatusCode: statusCode,
		Code:       ErrCodeDecode,
		Message:    fmt.Sprintf("decode response: %v", err),
		Body:       body,
		Err:        err,
	}
}

// NewInvalidRequestError creates an error for a request that could not be built.
func NewInvalidRequestError(err error) *Error {
	return &Error{Code: ErrCodeInvalidRequest, Message: err.Error(), Err: err}
}

// ClassifyStatusCode converts an HTTP status code into a typed error.
// Returns nil for 2xx status codes. The message is the server-supplied
// message when the body carries one, otherwise the status text.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}

	e := &Error{
		StatusCode:    statusCode,
		ServerMessage: tcerrors.ParseServerMessage(body),
		Body:          body,
	}
	e.Message = e.ServerMessage
	if e.Message == "" {
		e.Message = http.StatusText(statusCode)
	}
	if e.Message == "" {
		e.Message = fmt.Sprintf("HTTP %d", statusCode)
	}

	switch {
	case statusCode == http.StatusUnauthorized:
		e.Code = ErrCodeUnauthorized
	case statusCode == http.StatusForbidden:
		e.Code = ErrCodeForbidden
	case statusCode == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case statusCode == http.StatusTooManyRequests:
		e.Code = ErrCodeRateLimit
	case statusCode == http.StatusBadRequest:
		e.Code = ErrCodeBadRequest
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, true
	}
	return 0, false
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	c, ok := CodeOf(err)
	return ok && c == ErrCodeTimeout
}

// IsCanceled checks if an error is a cancellation error.
func IsCanceled(err error) bool {
	c, ok := CodeOf(err)
	return ok && c == ErrCodeCanceled
}

// IsRateLimit checks if an error is a rate-limit error.
func IsRateLimit(err error) bool {
	c, ok := CodeOf(err)
	return ok && c == ErrCodeRateLimit
}
