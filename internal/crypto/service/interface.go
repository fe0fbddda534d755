// Package service provides the cryptographic primitives used to seal api key
// secrets at rest: an AEAD cipher, HKDF subkey derivation and KMS access for
// unwrapping the sealing key.
package service

// AEAD defines the interface for Authenticated Encryption with Associated Data.
type AEAD interface {
	// Encrypt encrypts plaintext bound to aad and returns ciphertext and a fresh nonce.
	Encrypt(plaintext, aad []byte) (ciphertext, nonce []byte, err error)

	// Decrypt opens ciphertext with the nonce and aad used at encryption time.
	Decrypt(ciphertext, nonce, aad []byte) ([]byte, error)
}
