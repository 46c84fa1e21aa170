package apperrors

import (
	"errors"
	"fmt"
)

// Common application errors with proper types for error handling

var (
	// ErrNotFound indicates a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrAccessDenied indicates the user doesn't have permission
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput indicates invalid input data
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid authentication
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict indicates a conflict with existing data, including
	// optimistic-lock races on concurrent status transitions
	ErrConflict = errors.New("conflict")

	// ErrPreconditionFailed indicates the entity is not in the state
	// required by the operation
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrGateway indicates an external provider call failed
	ErrGateway = errors.New("gateway error")

	// ErrVerificationFailed indicates a payment signature mismatch
	ErrVerificationFailed = errors.New("verification failed")

	// ErrInternal indicates an internal server error
	ErrInternal = errors.New("internal error")
)

// NotFoundError creates a not found error with context
func NotFoundError(resource string) error {
	return fmt.Errorf("%s %w", resource, ErrNotFound)
}

// AccessDeniedError creates an access denied error with context
func AccessDeniedError(reason string) error {
	if reason != "" {
		return fmt.Errorf("%s: %w", reason, ErrAccessDenied)
	}
	return ErrAccessDenied
}

// InvalidInputError creates an invalid input error with context
func InvalidInputError(field, reason string) error {
	return fmt.Errorf("%s: %s: %w", field, reason, ErrInvalidInput)
}

// PreconditionError creates a precondition failed error with context
func PreconditionError(reason string) error {
	return fmt.Errorf("%s: %w", reason, ErrPreconditionFailed)
}

// GatewayError creates a gateway error with context
func GatewayError(provider string, err error) error {
	return fmt.Errorf("%s: %v: %w", provider, err, ErrGateway)
}

// InternalError creates an internal error with context
func InternalError(msg string) error {
	return fmt.Errorf("%s: %w", msg, ErrInternal)
}

// Is checks if an error matches a target error (works with wrapped errors)
func Is(err, target error) bool {
	return errors.Is(err, target)
}
