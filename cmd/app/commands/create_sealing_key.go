package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"strings"

	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"
	cryptoService "github.com/dandi-labs/dandi/internal/crypto/service"
)

// RunCreateSealingKey generates a random 32-byte sealing key, encrypts it with
// the KMS key at kmsKeyURI and prints the KMS_KEY_URI and SEALING_KEY lines to
// put in the environment. The plaintext key is zeroed before returning.
//
// For local development use kmsKeyURI="base64key://<32-byte-base64-key>".
func RunCreateSealingKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsKeyURI string,
) error {
	if strings.TrimSpace(kmsKeyURI) == "" {
		return fmt.Errorf(
			"--kms-key-uri is required\n\nFor local development, use:\n  --kms-key-uri=\"base64key://<32-byte-base64-key>\"\n\nFor production, use a cloud KMS:\n  --kms-key-uri=\"gcpkms://projects/.../cryptoKeys/...\"\n  --kms-key-uri=\"awskms:///alias/...\"\n  --kms-key-uri=\"azurekeyvault://...\"\n  --kms-key-uri=\"hashivault://...\"",
		)
	}

	sealingKey := make([]byte, cryptoDomain.KeySize)
	if _, err := rand.Read(sealingKey); err != nil {
		return fmt.Errorf("failed to generate sealing key: %w", err)
	}
	defer cryptoDomain.Zero(sealingKey)

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Error("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, sealingKey)
	if err != nil {
		return fmt.Errorf("failed to encrypt sealing key with KMS: %w", err)
	}

	_, _ = fmt.Fprintln(writer, "# Sealing Key Configuration")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "SEALING_KEY=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))

	logger.Info("sealing key created")
	return nil
}
