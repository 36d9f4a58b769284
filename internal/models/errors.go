package models

import (
	"errors"
	"fmt"
)

// Custom errors
var (
	// ErrNotFound covers both a missing record and a record owned by another
	// user. The two cases are deliberately indistinguishable to callers.
	ErrNotFound = errors.New("record not found")
)

// ValidationError is a user-correctable input problem. Its reason is surfaced
// to the caller verbatim and is never treated as a system fault.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// NewValidationError creates a validation error with a user-facing reason.
func NewValidationError(reason string) *ValidationError {
	return &ValidationError{Reason: reason}
}

// IsValidationError reports whether err is a validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// LimitExceededError signals that a user has reached their strategy limit.
// Distinct from ValidationError because the corrective action differs.
type LimitExceededError struct {
	Limit int
}

func (e *LimitExceededError) Error() string {
	return "You have reached your strategy limit. Contact admin to increase your limit."
}

// IsLimitExceeded reports whether err is a strategy-limit failure.
func IsLimitExceeded(err error) bool {
	var le *LimitExceededError
	return errors.As(err, &le)
}

// PersistenceError wraps an underlying store failure. Callers surface it as a
// generic message; the wrapped detail is logged server-side only.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// IsPersistenceError reports whether err is an underlying store failure.
func IsPersistenceError(err error) bool {
	var pe *PersistenceError
	return errors.As(err, &pe)
}
