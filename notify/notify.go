// Package notify delivers user-visible notifications (the CLI equivalent
// of toast messages).
package notify

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/kbukum/tripcart/errors"
	"github.com/kbukum/tripcart/logger"
)

// Variant selects how a notification is presented.
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is one user-visible message.
type Notification struct {
	Title    string
	Message  string
	Variant  Variant
	Kind     errors.Kind // empty for non-error notifications
	Severity errors.Severity
}

// Notifier delivers notifications.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier.
type Func func(ctx context.Context, n Notification)

func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, nt := range m {
		nt.Notify(ctx, n)
	}
}

// Nop discards notifications.
func Nop() Notifier { return Func(func(context.Context, Notification) {}) }

// Success builds a default-variant notification.
func Success(title, message string) Notification {
	return Notification{Title: title, Message: message, Variant: VariantDefault}
}

// Failure builds a destructive notification that is not tied to an error kind.
func Failure(title, message string) Notification {
	return Notification{Title: title, Message: message, Variant: VariantDestructive, Severity: errors.SeverityHigh}
}

// FromError builds the notification for a normalized error.
func FromError(err *errors.Error) Notification {
	n := Notification{
		Title:    "Error",
		Message:  err.Message,
		Variant:  VariantDestructive,
		Kind:     err.Kind,
		Severity: err.Severity(),
	}
	if err.Kind == errors.KindAborted {
		n.Title = "Cancelled"
		n.Variant = VariantDefault
	}
	return n
}

// Writer prints notifications as single lines to an io.Writer.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriter creates a Writer notifier.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Notify(_ context.Context, n Notification) {
	marker := "*"
	if n.Variant == VariantDestructive {
		marker = "!"
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	fmt.Fprintf(w.w, "%s %s: %s\n", marker, n.Title, n.Message)
}

// Log records notifications in the structured log.
type Log struct {
	log *logger.Logger
}

// NewLog creates a notifier that writes to log.
func NewLog(log *logger.Logger) *Log {
	return &Log{log: log.WithComponent("notify")}
}

func (l *Log) Notify(ctx context.Context, n Notification) {
	fields := logger.Fields("title", n.Title, "variant", string(n.Variant))
	if n.Kind != "" {
		fields[logger.FieldKind] = string(n.Kind)
	}
	l.log.WithContext(ctx).Debug(n.Message, fields)
}
