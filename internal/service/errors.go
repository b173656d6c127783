package service

import (
	"errors"
	"fmt"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a resource is owned by a different user than the one making the request.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("resource is owned by another user")

	// ErrCardHasTransactions indicates a debit card cannot be deleted because
	// transactions still reference it.
	// API layer should map this to HTTP 409 Conflict.
	ErrCardHasTransactions = errors.New("debit card has transactions")
)

// DebitCardServiceError is a custom error type for debit card service errors.
type DebitCardServiceError struct {
	Operation string
	Message   string
	Err       error
}

// Error implements the error interface for DebitCardServiceError.
func (e *DebitCardServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("debit card service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("debit card service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *DebitCardServiceError) Unwrap() error {
	return e.Err
}

// NewDebitCardServiceError creates a new DebitCardServiceError.
func NewDebitCardServiceError(operation, message string, err error) *DebitCardServiceError {
	return &DebitCardServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
