package normalizer

import (
	"context"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/logger"
	"github.com/kbukum/tripcart/notify"
)

// Reporter writes normalized errors to the diagnostic log and emits one
// notification per reported error.
type Reporter struct {
	log      *logger.Logger
	notifier notify.Notifier
}

// NewReporter creates a Reporter. A nil notifier discards notifications.
func NewReporter(log *logger.Logger, notifier notify.Notifier) *Reporter {
	if log == nil {
		log = logger.Get("normalizer")
	}
	if notifier == nil {
		notifier = notify.Nop()
	}
	return &Reporter{log: log.WithComponent("normalizer"), notifier: notifier}
}

// Report logs err and notifies the user once.
func (r *Reporter) Report(ctx context.Context, err *errors.Error, fields map[string]any) {
	if err == nil {
		return
	}
	f := logger.Fields(
		logger.FieldKind, string(err.Kind),
		"severity", err.Severity().String(),
	)
	if err.HTTPStatus > 0 {
		f[logger.FieldStatus] = err.HTTPStatus
	}
	if err.ServerMessage != "" {
		f["server_message"] = err.ServerMessage
	}
	if err.Cause != nil {
		f[logger.FieldError] = err.Cause.Error()
	}
	for k, v := range fields {
		f[k] = v
	}

	log := r.log.WithContext(ctx)
	if err.Severity() == errors.SeverityLow {
		log.Warn(err.Message, f)
	} else {
		log.Error(err.Message, f)
	}
	r.notifier.Notify(ctx, notify.FromError(err))
}

// NormalizeAndReport normalizes raw, reports it, and returns the result.
func (r *Reporter) NormalizeAndReport(ctx context.Context, raw error, fields map[string]any) *errors.Error {
	n := Normalize(raw)
	r.Report(ctx, n, fields)
	return n
}
