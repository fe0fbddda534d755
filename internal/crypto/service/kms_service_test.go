package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/secrets"

	cryptoDomain "github.com/dandi-labs/dandi/internal/crypto/domain"
)

// generateLocalSecretsURI generates a base64key:// URI for testing.
func generateLocalSecretsURI(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return "base64key://" + base64.URLEncoding.EncodeToString(key)
}

// wrapKey encrypts key with the keeper at keyURI and returns it base64 encoded,
// the way create-sealing-key prints SEALING_KEY.
func wrapKey(t *testing.T, keyURI string, key []byte) string {
	t.Helper()
	ctx := context.Background()

	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper.Close())
	}()

	ciphertext, err := keeper.Encrypt(ctx, key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(ciphertext)
}

func TestKMSService_OpenKeeper(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	t.Run("Success_LocalSecrets", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
		require.NoError(t, err)
		defer func() {
			assert.NoError(t, keeper.Close())
		}()

		_, ok := keeper.(*secrets.Keeper)
		assert.True(t, ok)
	})

	t.Run("Error_InvalidURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "invalid://uri")

		assert.Error(t, err)
		assert.Nil(t, keeper)
		assert.Contains(t, err.Error(), "failed to open KMS keeper")
	})

	t.Run("Error_EmptyURI", func(t *testing.T) {
		keeper, err := kmsService.OpenKeeper(ctx, "")

		assert.Error(t, err)
		assert.Nil(t, keeper)
	})
}

func TestKMSService_KeeperRoundTrip(t *testing.T) {
	ctx := context.Background()
	kmsService := NewKMSService()

	keeper1, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper1.Close())
	}()

	keeper2, err := kmsService.OpenKeeper(ctx, generateLocalSecretsURI(t))
	require.NoError(t, err)
	defer func() {
		assert.NoError(t, keeper2.Close())
	}()

	plaintext := make([]byte, 32)
	_, err = rand.Read(plaintext)
	require.NoError(t, err)

	ciphertext, err := keeper1.Encrypt(ctx, plaintext)
	require.NoError(t, err)

	decrypted, err := keeper1.Decrypt(ctx, ciphertext)
	require.NoError(t, err)
	assert.Equal(t, plaintext, decrypted)

	decrypted, err = keeper2.Decrypt(ctx, ciphertext)
	assert.Error(t, err)
	assert.Nil(t, decrypted)
}

func TestLoadSealingKey(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	kmsService := NewKMSService()

	t.Run("Success", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)
		key := make([]byte, 32)
		_, err := rand.Read(key)
		require.NoError(t, err)

		loaded, err := LoadSealingKey(ctx, kmsService, keyURI, wrapKey(t, keyURI, key), logger)

		require.NoError(t, err)
		assert.Equal(t, key, loaded)
	})

	t.Run("Error_KMSKeyURINotSet", func(t *testing.T) {
		loaded, err := LoadSealingKey(ctx, kmsService, "", "c2VhbGVk", logger)

		assert.ErrorIs(t, err, cryptoDomain.ErrKMSKeyURINotSet)
		assert.Nil(t, loaded)
	})

	t.Run("Error_SealingKeyNotSet", func(t *testing.T) {
		loaded, err := LoadSealingKey(ctx, kmsService, generateLocalSecretsURI(t), "", logger)

		assert.ErrorIs(t, err, cryptoDomain.ErrSealingKeyNotSet)
		assert.Nil(t, loaded)
	})

	t.Run("Error_WrongKeeper", func(t *testing.T) {
		encoded := wrapKey(t, generateLocalSecretsURI(t), make([]byte, 32))

		loaded, err := LoadSealingKey(ctx, kmsService, generateLocalSecretsURI(t), encoded, logger)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to decrypt sealing key with KMS")
		assert.Nil(t, loaded)
	})

	t.Run("Error_InvalidKeySize", func(t *testing.T) {
		keyURI := generateLocalSecretsURI(t)

		loaded, err := LoadSealingKey(ctx, kmsService, keyURI, wrapKey(t, keyURI, make([]byte, 16)), logger)

		assert.ErrorIs(t, err, cryptoDomain.ErrInvalidKeySize)
		assert.Nil(t, loaded)
	})
}
