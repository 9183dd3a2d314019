package validation

import (
	"strings"

	"github.com/kbukum/tripcart/errors"
)

// FieldError is a validation failure for one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error lists every failing field of one validation run.
type Error struct {
	Fields []FieldError `json:"fields"`
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + " " + f.Message
	}
	return strings.Join(parts, "; ")
}

// Message returns the message for field, if it failed.
func (e *Error) Message(field string) (string, bool) {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message, true
		}
	}
	return "", false
}

// Normalized converts e into a BadRequest error so it can be surfaced the
// same way as a rejection from the backend.
func (e *Error) Normalized() *errors.Error {
	return errors.New(errors.KindBadRequest, 0, e.Error()).WithCause(e)
}
