package service

import (
	"errors"
)

// Error kinds. Match with errors.Is.
var (
	ErrValidation    = errors.New("validation error")
	ErrNotAuthorized = errors.New("not authorized")
	ErrForbidden     = errors.New("forbidden")
	ErrStorage       = errors.New("storage error")
)

// Error carries a caller-facing message and the kind it belongs to.
type Error struct {
	Kind    error
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func validationError(msg string) error {
	return &Error{Kind: ErrValidation, Message: msg}
}

func notAuthorized() error {
	return &Error{Kind: ErrNotAuthorized, Message: "Unauthorized"}
}

func forbidden() error {
	return &Error{Kind: ErrForbidden, Message: "task belongs to another user"}
}

func storageError(err error) error {
	return &Error{Kind: ErrStorage, Message: err.Error(), Err: err}
}
