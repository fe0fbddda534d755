package service

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"
)

const (
	// InfoSecretLookup labels the HMAC key used for secret lookup hashes.
	InfoSecretLookup = "dandi/apikey/lookup/v1"
	// InfoSecretSeal labels the AEAD key used to encrypt secrets.
	InfoSecretSeal = "dandi/apikey/seal/v1"
)

// DeriveKey expands the sealing key into an independent 32-byte subkey for info.
func DeriveKey(sealingKey []byte, info string) ([]byte, error) {
	if err := cryptoDomain.CheckKeySize(sealingKey); err != nil {
		return nil, err
	}

	key := make([]byte, cryptoDomain.KeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, sealingKey, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("failed to derive key %q: %w", info, err)
	}
	return key, nil
}
