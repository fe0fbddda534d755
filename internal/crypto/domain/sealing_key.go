package domain

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
)

// KeySize is the length in bytes of the sealing key and every key derived from it.
const KeySize = 32

// KMSKeeper is the subset of *secrets.Keeper used to wrap and unwrap the sealing key.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// DecodeSealingKey decodes the base64 KMS ciphertext stored in SEALING_KEY.
func DecodeSealingKey(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if encoded == "" {
		return nil, ErrSealingKeyNotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSealingKeyBase64, err)
	}
	return ciphertext, nil
}

// CheckKeySize returns ErrInvalidKeySize unless key is exactly KeySize bytes.
func CheckKeySize(key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("%w: must be %d bytes, got %d", ErrInvalidKeySize, KeySize, len(key))
	}
	return nil
}
