package services

import "errors"

// ValidationError marks malformed input: missing fields, bad pincode pattern,
// oversized content. Handlers map it to 400 and return the message verbatim,
// so messages must name the offending field and rule without leaking storage
// details.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

func Validation(msg string) error { return &ValidationError{msg: msg} }

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
