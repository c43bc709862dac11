package domain

import "errors"

// ErrEmailTaken maps the duplicate-key violation on users.email.
var ErrEmailTaken = errors.New("email adress already registered")

// ValidationError carries the first user-facing validation message for a
// request. Handlers return its text verbatim in the error envelope.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }
