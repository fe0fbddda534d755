// Package service provides session token issuing and verification.
package service

import (
	"time"

	"github.com/google/uuid"
)

// SessionVerifier resolves a session token to the owner it was issued for.
type SessionVerifier interface {
	// Verify returns the owner id carried in the token's subject. Every failure
	// returns domain.ErrInvalidSession.
	Verify(token string) (uuid.UUID, error)
}

// SessionService issues and verifies HS256 session tokens.
type SessionService interface {
	SessionVerifier

	// Issue mints a token for ownerID that expires after ttl.
	Issue(ownerID uuid.UUID, ttl time.Duration) (string, error)
}
