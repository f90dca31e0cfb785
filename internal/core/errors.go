package core

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable category attached to every domain error. The web
// adapter maps codes to HTTP statuses; callers must never have to match on
// message text.
type ErrorCode string

const (
	ErrNotFound          ErrorCode = "NOT_FOUND"
	ErrValidation        ErrorCode = "VALIDATION_ERROR"
	ErrHasDependents     ErrorCode = "HAS_DEPENDENTS"
	ErrOverFulfillment   ErrorCode = "OVER_FULFILLMENT"
	ErrInsufficientStock ErrorCode = "INSUFFICIENT_STOCK"
	ErrComputation       ErrorCode = "COMPUTATION_ERROR"
)

// DomainError pairs a human-readable message with a stable category code.
type DomainError struct {
	Code    ErrorCode
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func domainErrorf(code ErrorCode, format string, args ...any) *DomainError {
	return &DomainError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf returns the domain error code carried by err, unwrapping as needed,
// or the empty string if err carries none.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
