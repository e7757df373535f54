package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrInvalidInput indicates that the provided input is invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidMode is matched by every *InvalidModeError via errors.Is.
	ErrInvalidMode = errors.New("invalid length mode")
)

// InvalidModeError is returned when a verbosity mode is not short, medium or long.
type InvalidModeError struct {
	Mode string
}

// Error returns a formatted error message for the invalid mode.
func (e *InvalidModeError) Error() string {
	return fmt.Sprintf("invalid length mode %q: must be one of short, medium, long", e.Mode)
}

// Is lets errors.Is(err, ErrInvalidMode) match any InvalidModeError.
func (e *InvalidModeError) Is(target error) bool {
	return target == ErrInvalidMode
}

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
