// Package domain defines the authenticated principal and session errors.
package domain

import "github.com/google/uuid"

// PrincipalSource records how a request was authenticated.
type PrincipalSource string

const (
	// PrincipalSourceSession is a browser or CLI session token.
	PrincipalSourceSession PrincipalSource = "session"
	// PrincipalSourceAPIKey is a bearer api key presented to the data API.
	PrincipalSourceAPIKey PrincipalSource = "apikey"
)

// Principal is the authenticated owner of a request. Every api key operation is
// scoped to Principal.OwnerID.
type Principal struct {
	OwnerID uuid.UUID
	Source  PrincipalSource
	// KeyID is set only when Source is PrincipalSourceAPIKey.
	KeyID uuid.UUID
}
