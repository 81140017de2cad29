package domain

import "fmt"

// ErrorKind classifies domain errors so transport layers can map them to
// status codes without string matching.
type ErrorKind string

const (
	KindValidation        ErrorKind = "validation"
	KindNotFound          ErrorKind = "not_found"
	KindInvalidTransition ErrorKind = "invalid_transition"
	KindCapacityExceeded  ErrorKind = "capacity_exceeded"
	KindDateConflict      ErrorKind = "date_conflict"
	KindConflict          ErrorKind = "conflict"
	KindForbidden         ErrorKind = "forbidden"
)

// Error is a business-rule failure. None of these are retryable; they all
// describe the current state of the system.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// NewValidationError reports malformed or out-of-range input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewInvalidTransitionError reports a status jump the lifecycle table does not allow.
func NewInvalidTransitionError(from, to string) *Error {
	return &Error{Kind: KindInvalidTransition, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewCapacityExceededError reports a reservation that would overshoot room capacity.
func NewCapacityExceededError(message string) *Error {
	return &Error{Kind: KindCapacityExceeded, Message: message}
}

// NewDateConflictError reports an overlap with an existing active booking.
func NewDateConflictError(message string) *Error {
	return &Error{Kind: KindDateConflict, Message: message}
}

// NewConflictError reports a concurrent-modification or dependent-record conflict.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewForbiddenError reports an operation on a resource the caller does not own.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// KindOf returns the error's kind, or "" for non-domain errors.
func KindOf(err error) ErrorKind {
	if de, ok := err.(*Error); ok {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
