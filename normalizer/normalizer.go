// Package normalizer maps raw failures from the transport and retry layers
// onto the fixed error taxonomy in package errors, and reports normalized
// errors to the log and the user.
package normalizer

import (
	"context"
	stderrors "errors"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/httpclient"
)

// Normalize maps raw to a normalized error. It is pure: the same raw error
// always yields an equal result, and an already normalized error is
// returned unchanged. Normalize(nil) is nil.
//
// Mapping, first match wins:
//
//	deadline exceeded / transport timeout -> Timeout
//	caller cancellation                   -> Aborted
//	HTTP 401                              -> Unauthorized
//	HTTP 403                              -> Forbidden
//	HTTP 429                              -> RateLimited
//	HTTP 400                              -> BadRequest (server message, else status text)
//	HTTP 5xx                              -> ServerError
//	malformed success body                -> Unknown (generic)
//	anything else                         -> Unknown (server message or status text, else generic)
func Normalize(raw error) *errors.Error {
	if raw == nil {
		return nil
	}
	if e, ok := errors.As(raw); ok {
		return e
	}

	if stderrors.Is(raw, context.DeadlineExceeded) || httpclient.IsTimeout(raw) {
		return errors.New(errors.KindTimeout, 0, errors.MsgTimeout).WithCause(raw)
	}
	if stderrors.Is(raw, context.Canceled) || httpclient.IsCanceled(raw) {
		return errors.New(errors.KindAborted, 0, errors.MsgAborted).WithCause(raw)
	}

	var he *httpclient.Error
	if !stderrors.As(raw, &he) || he.StatusCode == 0 {
		return errors.New(errors.KindUnknown, 0, errors.MsgGeneric).WithCause(raw)
	}

	out := fromStatus(he)
	out.ServerMessage = he.ServerMessage
	out.Cause = raw
	return out
}

func fromStatus(he *httpclient.Error) *errors.Error {
	status := he.StatusCode
	switch he.Code {
	case httpclient.ErrCodeUnauthorized:
		return errors.New(errors.KindUnauthorized, status, errors.MsgUnauthorized)
	case httpclient.ErrCodeForbidden:
		return errors.New(errors.KindForbidden, status, errors.MsgForbidden)
	case httpclient.ErrCodeRateLimit:
		return errors.New(errors.KindRateLimited, status, errors.MsgRateLimited)
	case httpclient.ErrCodeBadRequest:
		return errors.New(errors.KindBadRequest, status, messageOr(he.Message))
	case httpclient.ErrCodeServer:
		return errors.New(errors.KindServerError, status, errors.MsgServerError)
	case httpclient.ErrCodeDecode:
		return errors.New(errors.KindUnknown, status, errors.MsgGeneric)
	default:
		return errors.New(errors.KindUnknown, status, messageOr(he.Message))
	}
}

func messageOr(msg string) string {
	if msg == "" {
		return errors.MsgGeneric
	}
	return msg
}
