package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Validator collects field errors.
type Validator struct {
	errs []FieldError
}

func New() *Validator {
	return &Validator{}
}

// AddError records a failure for field.
func (v *Validator) AddError(field, message string) {
	v.errs = append(v.errs, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errs) > 0 }

// Err returns *Error when any check failed, nil otherwise.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return &Error{Fields: append([]FieldError(nil), v.errs...)}
}

// Merge appends the fields of err when it is a *Error. Any other non-nil
// error is recorded against field.
func (v *Validator) Merge(field string, err error) *Validator {
	if err == nil {
		return v
	}
	if ve, ok := err.(*Error); ok {
		v.errs = append(v.errs, ve.Fields...)
		return v
	}
	v.AddError(field, err.Error())
	return v
}

func (v *Validator) Required(field, value string) *Validator {
	if strings.TrimSpace(value) == "" {
		v.AddError(field, "is required")
	}
	return v
}

func (v *Validator) Email(field, value string) *Validator {
	if value == "" {
		return v
	}
	if err := getValidator().Var(value, "email"); err != nil {
		v.AddError(field, "must be a valid email address")
	}
	return v
}

// OptionalUUID checks that a non-empty value parses as a UUID.
func (v *Validator) OptionalUUID(field, value string) *Validator {
	if value == "" {
		return v
	}
	if _, err := uuid.Parse(value); err != nil {
		v.AddError(field, "must be a valid UUID")
	}
	return v
}

// Length checks the rune count of value against [minLen, maxLen]. A
// negative bound is not checked.
func (v *Validator) Length(field, value string, minLen, maxLen int) *Validator {
	n := utf8.RuneCountInString(value)
	switch {
	case minLen >= 0 && n < minLen:
		v.AddError(field, fmt.Sprintf("must be at least %d characters", minLen))
	case maxLen >= 0 && n > maxLen:
		v.AddError(field, fmt.Sprintf("must be at most %d characters", maxLen))
	}
	return v
}

func (v *Validator) Positive(field string, value float64) *Validator {
	if value <= 0 {
		v.AddError(field, "must be greater than 0")
	}
	return v
}

func (v *Validator) Between(field string, value, minVal, maxVal float64) *Validator {
	if value < minVal || value > maxVal {
		v.AddError(field, fmt.Sprintf("must be between %g and %g", minVal, maxVal))
	}
	return v
}

func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	if value == "" {
		return v
	}
	for _, a := range allowed {
		if value == a {
			return v
		}
	}
	v.AddError(field, "must be one of: "+strings.Join(allowed, ", "))
	return v
}

// Custom records message against field when ok is false.
func (v *Validator) Custom(ok bool, field, message string) *Validator {
	if !ok {
		v.AddError(field, message)
	}
	return v
}
