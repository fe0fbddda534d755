// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"
	"unicode"

	validation "github.com/jellydator/validation"

	apperrors "github.com/dandi-labs/dandi/internal/errors"
)

// WrapValidationError wraps validation errors as domain ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// NoWhitespace validates that a string has no whitespace once surrounding
// whitespace is trimmed. Credentials pasted from a terminal often carry a
// trailing newline, which is tolerated.
var NoWhitespace = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.ContainsFunc(strings.TrimSpace(s), unicode.IsSpace)
	},
	validation.NewError("validation_no_whitespace", "must not contain whitespace"),
)

// Printable validates that a string has no control characters.
var Printable = validation.NewStringRuleWithError(
	func(s string) bool {
		return !strings.ContainsFunc(s, func(r rune) bool {
			return unicode.IsControl(r) && !unicode.IsSpace(r)
		})
	},
	validation.NewError("validation_printable", "must not contain control characters"),
)
