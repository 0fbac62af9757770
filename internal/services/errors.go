package services

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by a service wraps exactly one of these,
// which decides the HTTP status at the boundary.
var (
	ErrValidation      = errors.New("validation error")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrPayloadTooLarge = errors.New("payload too large")
)

// Credential failures, all of kind ErrUnauthorized.
var (
	ErrInvalidCredential   = &Error{Kind: ErrUnauthorized, Message: "invalid secret code"}
	ErrCredentialMissing   = &Error{Kind: ErrUnauthorized, Message: "authorization required"}
	ErrCredentialMalformed = &Error{Kind: ErrUnauthorized, Message: "invalid token"}
	ErrCredentialExpired   = &Error{Kind: ErrUnauthorized, Message: "token expired"}
)

// Error is a classified, user-presentable failure.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(format string, args ...interface{}) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

func Forbidden(msg string) error {
	return &Error{Kind: ErrForbidden, Message: msg}
}

func NotFound(msg string) error {
	return &Error{Kind: ErrNotFound, Message: msg}
}

func Conflict(msg string) error {
	return &Error{Kind: ErrConflict, Message: msg}
}
