// Package service provides the technical services behind the api key
// lifecycle: secret generation and sealing secrets for storage.
package service

import (
	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// KeyGenerator produces new api key secrets.
type KeyGenerator interface {
	// Generate returns a fresh secret for a key of the given class.
	Generate(class apikeyDomain.KeyClass) string
}

// SecretSealer turns plaintext secrets into what the store keeps and back.
type SecretSealer interface {
	// Hash returns the deterministic lookup hash of secret.
	Hash(secret string) []byte

	// Seal encrypts secret bound to the key id.
	Seal(id uuid.UUID, secret string) (ciphertext, nonce []byte, err error)

	// Open decrypts a sealed secret for the key id.
	Open(id uuid.UUID, ciphertext, nonce []byte) (string, error)
}
