package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/apikey/usecase/mocks"
)

const testSecret = "dandi_ABCDEFGHJKLMNPQRSTUVWXYZabcdef"

func newTestAPIKey(ownerID uuid.UUID) *apikeyDomain.APIKey {
	return &apikeyDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   ownerID,
		Name:      "CI Bot",
		Secret:    testSecret,
		Class:     apikeyDomain.KeyClassProduction,
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunCreateAPIKey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("text-shows-full-key", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		apiKey := newTestAPIKey(ownerID)
		mockUseCase.On("Create", ctx, ownerID, &apikeyDomain.CreateAPIKeyInput{
			Name:  "CI Bot",
			Class: apikeyDomain.KeyClassProduction,
		}).Return(apiKey, nil)

		var out bytes.Buffer
		err := RunCreateAPIKey(
			ctx, mockUseCase, discardLogger(), &out,
			ownerID.String(), "CI Bot", "production", 0, "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Key: "+testSecret)
		assert.Contains(t, out.String(), apiKey.ID.String())
		assert.NotContains(t, out.String(), "Usage Limit")
	})

	t.Run("json-with-usage-limit", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		apiKey := newTestAPIKey(ownerID)
		limit := int64(1000)
		apiKey.UsageLimit = &limit
		mockUseCase.On("Create", ctx, ownerID, mock.MatchedBy(func(input *apikeyDomain.CreateAPIKeyInput) bool {
			return input.UsageLimit != nil && *input.UsageLimit == 1000
		})).Return(apiKey, nil)

		var out bytes.Buffer
		err := RunCreateAPIKey(
			ctx, mockUseCase, discardLogger(), &out,
			ownerID.String(), "CI Bot", "production", 1000, "json",
		)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &result))
		assert.Equal(t, testSecret, result["key"])
		assert.Equal(t, float64(1000), result["usage_limit"])
	})

	t.Run("invalid-type-never-calls-use-case", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)

		err := RunCreateAPIKey(
			ctx, mockUseCase, discardLogger(), &bytes.Buffer{},
			ownerID.String(), "CI Bot", "staging", 0, "text",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("blank-name", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)

		err := RunCreateAPIKey(
			ctx, mockUseCase, discardLogger(), &bytes.Buffer{},
			ownerID.String(), "   ", "production", 0, "text",
		)
		require.Error(t, err)
	})

	t.Run("use-case-error", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		mockUseCase.On("Create", ctx, ownerID, mock.Anything).Return(nil, errors.New("db down"))

		err := RunCreateAPIKey(
			ctx, mockUseCase, discardLogger(), &bytes.Buffer{},
			ownerID.String(), "CI Bot", "production", 0, "text",
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to create api key")
	})
}

func TestRunImportAPIKey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("text-redacts-key", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		apiKey := newTestAPIKey(ownerID)
		apiKey.Name = "Legacy"
		mockUseCase.On("Import", ctx, ownerID, &apikeyDomain.ImportAPIKeyInput{
			Name:   "Legacy",
			Secret: testSecret,
			Class:  apikeyDomain.KeyClassProduction,
		}).Return(apiKey, nil)

		var out bytes.Buffer
		err := RunImportAPIKey(
			ctx, mockUseCase, discardLogger(), &out,
			ownerID.String(), "Legacy", testSecret, "production", "text",
		)
		require.NoError(t, err)
		assert.Contains(t, out.String(), "Key: "+apikeyDomain.RedactedMask(testSecret))
		assert.NotContains(t, out.String(), testSecret)
	})

	t.Run("conflict", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		mockUseCase.On("Import", ctx, ownerID, mock.Anything).Return(nil, apikeyDomain.ErrAPIKeyAlreadyExists)

		err := RunImportAPIKey(
			ctx, mockUseCase, discardLogger(), &bytes.Buffer{},
			ownerID.String(), "Legacy", testSecret, "production", "json",
		)
		require.ErrorIs(t, err, apikeyDomain.ErrAPIKeyAlreadyExists)
	})

	t.Run("key-with-whitespace", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)

		err := RunImportAPIKey(
			ctx, mockUseCase, discardLogger(), &bytes.Buffer{},
			ownerID.String(), "Legacy", "has space", "production", "text",
		)
		require.Error(t, err)
	})
}

func TestRunListAPIKeys(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("text-masks-keys", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		apiKey := newTestAPIKey(ownerID)
		apiKey.UsageCount = 3
		mockUseCase.On("List", ctx, ownerID).Return([]*apikeyDomain.APIKey{apiKey}, nil)

		var out bytes.Buffer
		err := RunListAPIKeys(ctx, mockUseCase, discardLogger(), &out, ownerID.String(), "text")
		require.NoError(t, err)
		assert.Contains(t, out.String(), "dandi...cdef")
		assert.Contains(t, out.String(), "never")
		assert.NotContains(t, out.String(), testSecret)
	})

	t.Run("json-empty-list", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		mockUseCase.On("List", ctx, ownerID).Return([]*apikeyDomain.APIKey{}, nil)

		var out bytes.Buffer
		err := RunListAPIKeys(ctx, mockUseCase, discardLogger(), &out, ownerID.String(), "json")
		require.NoError(t, err)
		assert.JSONEq(t, "[]", out.String())
	})

	t.Run("invalid-owner-id", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)

		err := RunListAPIKeys(ctx, mockUseCase, discardLogger(), &bytes.Buffer{}, "owner", "text")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--owner-id")
	})
}

func TestRunDeleteAPIKey(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	id := uuid.New()

	t.Run("success", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		mockUseCase.On("Delete", ctx, id, ownerID).Return(nil)

		var out bytes.Buffer
		err := RunDeleteAPIKey(ctx, mockUseCase, discardLogger(), &out, ownerID.String(), id.String())
		require.NoError(t, err)
		assert.Contains(t, out.String(), id.String())
	})

	t.Run("not-found", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)
		mockUseCase.On("Delete", ctx, id, ownerID).Return(apikeyDomain.ErrAPIKeyNotFound)

		err := RunDeleteAPIKey(ctx, mockUseCase, discardLogger(), &bytes.Buffer{}, ownerID.String(), id.String())
		require.ErrorIs(t, err, apikeyDomain.ErrAPIKeyNotFound)
	})

	t.Run("invalid-id", func(t *testing.T) {
		mockUseCase := mocks.NewMockAPIKeyUseCase(t)

		err := RunDeleteAPIKey(ctx, mockUseCase, discardLogger(), &bytes.Buffer{}, ownerID.String(), "nope")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--id")
	})
}
