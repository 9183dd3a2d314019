// Package validation checks user input before it is sent to the backend.
//
// Struct tags cover the declarative rules of a form:
//
//	type SignupForm struct {
//	    Email    string `json:"email" validate:"required,email"`
//	    Password string `json:"password" validate:"required,min=8,max=128"`
//	}
//	err := validation.Struct(form)
//
// The fluent Validator covers rules that need code:
//
//	v := validation.New()
//	v.Custom(!arrival.Before(departure), "arrival_date", "must not be before departure")
//	err := v.Err()
//
// Both return *Error, which lists every failing field.
package validation
