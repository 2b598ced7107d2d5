package shared

import "errors"

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target carries the same code, so a specific message
// still matches the generic sentinel with errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// NewInvalidInputError returns an INVALID_INPUT error with a specific message
func NewInvalidInputError(message string) *DomainError {
	return NewDomainError(ErrInvalidInput.Code, message)
}

// NewInvalidStateError returns an INVALID_STATE error with a specific message
func NewInvalidStateError(message string) *DomainError {
	return NewDomainError(ErrInvalidState.Code, message)
}

// NewNotFoundError returns a NOT_FOUND error with a specific message
func NewNotFoundError(message string) *DomainError {
	return NewDomainError(ErrNotFound.Code, message)
}
