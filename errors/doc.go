// Package errors defines the normalized error shape returned by every
// marketplace API call. Transport failures, timeouts, cancellations and
// non-2xx responses are all reduced to an *Error carrying one Kind from a
// small fixed taxonomy plus a human-readable message.
package errors
