// Package domain defines the api key entity, its key classes and the masking
// rules applied whenever a secret leaves the service.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// KeyClass distinguishes production keys from development keys. It is
// informational and does not change the secret format.
type KeyClass string

const (
	// KeyClassProduction marks keys used by live integrations.
	KeyClassProduction KeyClass = "production"
	// KeyClassDevelopment marks keys used for testing and local work.
	KeyClassDevelopment KeyClass = "development"
)

// SecretPrefix is the namespace every generated secret starts with.
const SecretPrefix = "dandi_"

// MaxCreateAttempts bounds secret regeneration when Create hits a collision.
const MaxCreateAttempts = 3

// Valid reports whether c is a known key class.
func (c KeyClass) Valid() bool {
	return c == KeyClassProduction || c == KeyClassDevelopment
}

// ParseKeyClass returns the KeyClass for s or ErrInvalidKeyClass.
func ParseKeyClass(s string) (KeyClass, error) {
	c := KeyClass(strings.TrimSpace(s))
	if !c.Valid() {
		return "", ErrInvalidKeyClass
	}
	return c, nil
}

// APIKey is a credential owned by a single user.
//
// Secret is populated only right after generation, on import, on reveal and on
// usage recording. The store keeps SecretHash for lookups and the sealed
// Ciphertext/Nonce pair for reveal; it never keeps the plaintext.
type APIKey struct {
	ID         uuid.UUID // UUIDv7
	OwnerID    uuid.UUID // session subject
	Name       string
	Secret     string //nolint:gosec // plaintext, never persisted
	SecretHash []byte // HMAC-SHA256 of Secret
	Ciphertext []byte
	Nonce      []byte
	Class      KeyClass
	UsageCount int64
	UsageLimit *int64 // informational, never enforced
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// CreateAPIKeyInput holds the caller supplied fields for Create.
type CreateAPIKeyInput struct {
	Name       string
	Class      KeyClass
	UsageLimit *int64
}

// ImportAPIKeyInput holds the caller supplied fields for Import.
type ImportAPIKeyInput struct {
	Name   string
	Secret string //nolint:gosec // plaintext supplied by the owner
	Class  KeyClass
}
