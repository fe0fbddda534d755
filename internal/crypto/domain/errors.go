package domain

import (
	"github.com/dandi-labs/dandi/internal/errors"
)

// Sealing key and cipher errors. All of them are configuration or integrity
// failures and are never surfaced to HTTP clients verbatim.
var (
	// ErrKMSKeyURINotSet indicates KMS_KEY_URI is empty.
	ErrKMSKeyURINotSet = errors.New("KMS_KEY_URI is not set")

	// ErrSealingKeyNotSet indicates SEALING_KEY is empty.
	ErrSealingKeyNotSet = errors.New("SEALING_KEY is not set")

	// ErrInvalidSealingKeyBase64 indicates SEALING_KEY is not valid standard base64.
	ErrInvalidSealingKeyBase64 = errors.New("invalid sealing key base64")

	// ErrInvalidKeySize indicates key material that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrDecryptionFailed indicates an authentication failure while opening a sealed value.
	ErrDecryptionFailed = errors.New("decryption failed")
)
