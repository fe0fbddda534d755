package domain

import (
	"github.com/dandi-labs/dandi/internal/errors"
)

// Session errors. Every verification failure maps to ErrInvalidSession so callers
// cannot tell a bad signature from an expired token.
var (
	// ErrInvalidSession indicates a missing, malformed, expired or forged session token.
	ErrInvalidSession = errors.Wrap(errors.ErrUnauthorized, "invalid session")

	// ErrSessionSecretNotSet indicates AUTH_SESSION_SECRET is empty.
	ErrSessionSecretNotSet = errors.New("AUTH_SESSION_SECRET is not set")

	// ErrInvalidSessionTTL indicates a non-positive token lifetime.
	ErrInvalidSessionTTL = errors.Wrap(errors.ErrInvalidInput, "session ttl must be positive")
)
