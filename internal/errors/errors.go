// Package errors provides standardized domain errors that express business intent
// rather than infrastructure details. These errors should be used by use cases
// and mapped to appropriate HTTP status codes by handlers.
package errors

import (
	"errors"
	"fmt"
)

// Standard domain errors that can be used across all domain modules.
var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a conflict with existing data (e.g., duplicate key,
	// immutable field already set).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input data is invalid or fails validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition indicates a contract status change that the
	// transition graph does not allow. Not always fatal to the caller: the
	// webhook processor swallows it for stale provider events.
	ErrInvalidTransition = errors.New("invalid transition")

	// ErrLimitReached indicates a permanent business rejection: the contract
	// already carries the maximum number of notifications.
	ErrLimitReached = errors.New("limit reached")

	// ErrRateLimited indicates the recipient exhausted their send allowance.
	// Recoverable: delivery jobs are redelivered after a backoff.
	ErrRateLimited = errors.New("rate limited")

	// ErrGateway indicates the messaging gateway failed to accept a send.
	// Retryable up to the redelivery cap.
	ErrGateway = errors.New("gateway error")

	// ErrSuperseded indicates a notification was made moot by a contract
	// state change. Treated as a successful no-op by delivery workers.
	ErrSuperseded = errors.New("superseded")
)

// New creates a new error with the given message.
// This is a convenience wrapper around errors.New for consistency.
func New(message string) error {
	return errors.New(message)
}

// Wrap wraps an error with additional context while preserving the error chain.
// Use this to add context at each layer without losing the original error type.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted message while preserving the error chain.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
// This is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
// This is a convenience wrapper around errors.As.
func As(err error, target any) bool {
	return errors.As(err, target)
}
