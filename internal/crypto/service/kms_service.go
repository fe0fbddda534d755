package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens keepers for a KMS key URI.
type KMSService interface {
	// OpenKeeper opens a keeper for gcpkms://, awskms://, azurekeyvault://,
	// hashivault:// or base64key:// URIs.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a KMSService backed by gocloud.dev/secrets.
func NewKMSService() KMSService {
	return &kmsService{}
}

func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// LoadSealingKey unwraps the base64 KMS ciphertext in encoded with the keeper
// at kmsKeyURI and returns the 32-byte sealing key. The caller owns the result
// and should Zero it once subkeys have been derived.
func LoadSealingKey(
	ctx context.Context,
	kms KMSService,
	kmsKeyURI, encoded string,
	logger *slog.Logger,
) ([]byte, error) {
	if strings.TrimSpace(kmsKeyURI) == "" {
		return nil, cryptoDomain.ErrKMSKeyURINotSet
	}

	ciphertext, err := cryptoDomain.DecodeSealingKey(encoded)
	if err != nil {
		return nil, err
	}

	keeper, err := kms.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	key, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt sealing key with KMS: %w", err)
	}

	if err := cryptoDomain.CheckKeySize(key); err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}

	logger.Debug("sealing key loaded", slog.String("kms_key_uri_scheme", scheme(kmsKeyURI)))
	return key, nil
}

func scheme(uri string) string {
	if before, _, ok := strings.Cut(uri, "://"); ok {
		return before
	}
	return "unknown"
}
