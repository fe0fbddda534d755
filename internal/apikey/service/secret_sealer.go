package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"fmt"

	"github.com/google/uuid"

	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"
	cryptoService "github.com/dandi-labs/dandi/internal/crypto/service"
)

// secretSealer hashes secrets with an HMAC key and encrypts them with an AEAD
// key, both derived from the sealing key.
type secretSealer struct {
	lookupKey []byte
	aead      cryptoService.AEAD
}

// NewSecretSealer derives the lookup and encryption subkeys from sealingKey.
// sealingKey is not retained.
func NewSecretSealer(sealingKey []byte) (SecretSealer, error) {
	lookupKey, err := cryptoService.DeriveKey(sealingKey, cryptoService.InfoSecretLookup)
	if err != nil {
		return nil, err
	}

	sealKey, err := cryptoService.DeriveKey(sealingKey, cryptoService.InfoSecretSeal)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(sealKey)

	aead, err := cryptoService.NewChaCha20Poly1305(sealKey)
	if err != nil {
		return nil, err
	}

	return &secretSealer{lookupKey: lookupKey, aead: aead}, nil
}

func (s *secretSealer) Hash(secret string) []byte {
	mac := hmac.New(sha256.New, s.lookupKey)
	mac.Write([]byte(secret))
	return mac.Sum(nil)
}

func (s *secretSealer) Seal(id uuid.UUID, secret string) (ciphertext, nonce []byte, err error) {
	ciphertext, nonce, err = s.aead.Encrypt([]byte(secret), id[:])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to seal api key: %w", err)
	}
	return ciphertext, nonce, nil
}

func (s *secretSealer) Open(id uuid.UUID, ciphertext, nonce []byte) (string, error) {
	plaintext, err := s.aead.Decrypt(ciphertext, nonce, id[:])
	if err != nil {
		return "", fmt.Errorf("failed to open api key %s: %w", id, err)
	}
	return string(plaintext), nil
}
