// Package errors defines the domain error sentinels shared by every module.
// Use cases return these (usually wrapped with context) and the HTTP layer maps
// them to status codes in httputil.HandleErrorGin.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors. Domain packages wrap them to add a human readable message.
var (
	// ErrNotFound indicates the resource does not exist or is not owned by the caller.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a uniqueness violation (e.g., a duplicate api key secret).
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput indicates the input failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}

// Wrap annotates err with message while preserving the chain.
// Returns nil when err is nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is like Wrap with a formatted message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target.
func As(err error, target any) bool {
	return errors.As(err, target)
}
