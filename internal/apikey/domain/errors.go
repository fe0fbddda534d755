package domain

import (
	"github.com/dandi-labs/dandi/internal/errors"
)

// API key domain errors.
var (
	// ErrAPIKeyNotFound indicates no key matched the id and owner, or the secret.
	ErrAPIKeyNotFound = errors.Wrap(errors.ErrNotFound, "api key not found")

	// ErrAPIKeyAlreadyExists indicates the secret is already stored.
	ErrAPIKeyAlreadyExists = errors.Wrap(errors.ErrConflict, "api key already exists")

	// ErrBlankName indicates a name that is empty after trimming.
	ErrBlankName = errors.Wrap(errors.ErrInvalidInput, "name must not be blank")

	// ErrBlankSecret indicates a secret that is empty after trimming.
	ErrBlankSecret = errors.Wrap(errors.ErrInvalidInput, "api key must not be blank")

	// ErrInvalidKeyClass indicates a type other than production or development.
	ErrInvalidKeyClass = errors.Wrap(
		errors.ErrInvalidInput,
		"type must be one of: production, development",
	)

	// ErrInvalidUsageLimit indicates a usage limit that is present but not positive.
	ErrInvalidUsageLimit = errors.Wrap(errors.ErrInvalidInput, "usage limit must be a positive integer")

	// ErrSecretGenerationExhausted indicates every generated secret collided.
	// It deliberately wraps no sentinel and surfaces as an internal error.
	ErrSecretGenerationExhausted = errors.New("failed to generate a unique api key")
)
