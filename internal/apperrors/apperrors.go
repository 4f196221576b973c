package apperrors

import (
	"errors"
	"fmt"
)

// Kind discriminates the domain error categories the API maps to HTTP statuses.
type Kind int

const (
	// KindValidation marks malformed or out-of-range input (HTTP 400).
	KindValidation Kind = iota + 1
	// KindNotFound marks a referenced entity that is absent during a
	// multi-step operation (HTTP 404).
	KindNotFound
	// KindConflict marks a violated domain invariant such as a duplicate
	// unique field or a deletion blocked by live references (HTTP 409).
	KindConflict
)

// Error is the single domain error type. Services return it unchanged through
// every layer; only the handler layer maps Kind to a status code.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Validation builds a KindValidation error.
func Validation(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound builds a KindNotFound error naming the entity and its id.
func NotFound(entity string, id uint) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID %d not found", entity, id)}
}

// Conflict builds a KindConflict error.
func Conflict(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the Kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Kind
	}
	return 0
}
