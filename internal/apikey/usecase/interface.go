// Package usecase implements the api key lifecycle: create, import, rename,
// delete, list, reveal and usage recording.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// APIKeyRepository defines persistence operations for api keys.
// Implementations must support transaction-aware operations via context propagation.
// Every owner scoped method returns ErrAPIKeyNotFound when no row matches (id, ownerID).
type APIKeyRepository interface {
	// Create inserts a key. A duplicate secret hash returns ErrAPIKeyAlreadyExists.
	Create(ctx context.Context, apiKey *apikeyDomain.APIKey) error

	// Get retrieves a key by id and owner.
	Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error)

	// GetBySecretHash retrieves a key by the lookup hash of its secret.
	GetBySecretHash(ctx context.Context, secretHash []byte) (*apikeyDomain.APIKey, error)

	// ListByOwner returns the owner's keys newest first. A limit <= 0 returns all of them.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*apikeyDomain.APIKey, error)

	// UpdateName changes only the name of a key.
	UpdateName(ctx context.Context, id, ownerID uuid.UUID, name string) error

	// Delete removes a key.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// IncrementUsage atomically adds one to usage_count and moves last_used_at
	// forward to usedAt. Returns ErrAPIKeyNotFound for an unknown hash.
	IncrementUsage(ctx context.Context, secretHash []byte, usedAt time.Time) error
}

// APIKeyUseCase defines the api key lifecycle operations. Every owner facing
// operation takes the owner explicitly and never touches another owner's keys.
type APIKeyUseCase interface {
	// Create generates a secret and stores a new key. The returned key carries
	// the plaintext secret once.
	Create(
		ctx context.Context,
		ownerID uuid.UUID,
		input *apikeyDomain.CreateAPIKeyInput,
	) (*apikeyDomain.APIKey, error)

	// Import stores a key whose secret was generated elsewhere. A secret that
	// is already stored returns ErrAPIKeyAlreadyExists.
	Import(
		ctx context.Context,
		ownerID uuid.UUID,
		input *apikeyDomain.ImportAPIKeyInput,
	) (*apikeyDomain.APIKey, error)

	// Rename changes the name of a key and returns the updated key.
	Rename(ctx context.Context, id, ownerID uuid.UUID, name string) (*apikeyDomain.APIKey, error)

	// Delete removes a key.
	Delete(ctx context.Context, id, ownerID uuid.UUID) error

	// Get returns a key for masked single key reads. The secret is decrypted so
	// the transport can derive its namespace; it must not be sent raw.
	Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error)

	// List returns all of the owner's keys newest first, with secrets decrypted
	// so the transport can mask them.
	List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error)

	// ListPage is List with offset/limit pagination.
	ListPage(ctx context.Context, ownerID uuid.UUID, offset, limit int) ([]*apikeyDomain.APIKey, error)

	// Reveal returns a key with its plaintext secret.
	Reveal(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error)

	// RecordUsage counts one use of the key holding secret and returns the
	// updated key. Usage limits are informational and never enforced.
	RecordUsage(ctx context.Context, secret string) (*apikeyDomain.APIKey, error)
}
