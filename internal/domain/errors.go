package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Handlers map these to HTTP statuses; wrap them with *Error to
// carry the public message.
var (
	ErrInvalidID        = errors.New("invalid id")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrSourceUnreadable = errors.New("template source unreadable")
	ErrUpstreamSend     = errors.New("upstream send failed")
	ErrUnauthorized     = errors.New("unauthorized")
)

// Error pairs an error kind with a message that is safe to show to clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// NotFound returns "<entity> not found".
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Message: entity + " not found"}
}

// InvalidID returns "<entity> ID is invalid".
func InvalidID(entity string) error {
	return &Error{Kind: ErrInvalidID, Message: entity + " ID is invalid"}
}

// Validation returns a validation error with a formatted message.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// SourceUnreadable is returned when a template's path cannot be read.
func SourceUnreadable() error {
	return &Error{Kind: ErrSourceUnreadable, Message: "There was a problem reading the template source"}
}

// UpstreamSend wraps a send failure, passing its message through.
func UpstreamSend(err error) error {
	return &Error{Kind: ErrUpstreamSend, Message: err.Error()}
}

// Unauthorized returns a 401-class error with the given message.
func Unauthorized(message string) error {
	return &Error{Kind: ErrUnauthorized, Message: message}
}
