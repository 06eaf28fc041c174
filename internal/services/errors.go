package services

import "errors"

// Error kinds. Match them with errors.Is.
var (
	ErrValidation   = errors.New("validation error")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// Error is a domain error: Kind decides the HTTP status, Message is shown to
// the client as is.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func validationError(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

func conflictError(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

func unauthorizedError(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

func notFoundError(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }
