// Package apikeytest provides in-memory test doubles for the api key store.
package apikeytest

import (
	"bytes"
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// MemoryRepository is a goroutine safe, in-memory api key store with the same
// ownership and uniqueness rules as the SQL repositories.
type MemoryRepository struct {
	mu   sync.Mutex
	keys map[uuid.UUID]*apikeyDomain.APIKey
}

// NewMemoryRepository creates an empty MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{keys: make(map[uuid.UUID]*apikeyDomain.APIKey)}
}

// Create stores a copy of apiKey. The plaintext secret is dropped like the SQL stores do.
func (r *MemoryRepository) Create(_ context.Context, apiKey *apikeyDomain.APIKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.keys {
		if existing.ID == apiKey.ID || bytes.Equal(existing.SecretHash, apiKey.SecretHash) {
			return apikeyDomain.ErrAPIKeyAlreadyExists
		}
	}

	stored := clone(apiKey)
	stored.Secret = ""
	r.keys[apiKey.ID] = stored
	return nil
}

// Get returns the key with id when it belongs to ownerID.
func (r *MemoryRepository) Get(_ context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apiKey, ok := r.keys[id]
	if !ok || apiKey.OwnerID != ownerID {
		return nil, apikeyDomain.ErrAPIKeyNotFound
	}
	return clone(apiKey), nil
}

// GetBySecretHash returns the key whose lookup hash is secretHash.
func (r *MemoryRepository) GetBySecretHash(_ context.Context, secretHash []byte) (*apikeyDomain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, apiKey := range r.keys {
		if bytes.Equal(apiKey.SecretHash, secretHash) {
			return clone(apiKey), nil
		}
	}
	return nil, apikeyDomain.ErrAPIKeyNotFound
}

// ListByOwner returns the owner's keys newest first.
func (r *MemoryRepository) ListByOwner(
	_ context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	apiKeys := make([]*apikeyDomain.APIKey, 0)
	for _, apiKey := range r.keys {
		if apiKey.OwnerID == ownerID {
			apiKeys = append(apiKeys, clone(apiKey))
		}
	}

	slices.SortFunc(apiKeys, func(a, b *apikeyDomain.APIKey) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return bytes.Compare(b.ID[:], a.ID[:])
	})

	if offset >= len(apiKeys) {
		return []*apikeyDomain.APIKey{}, nil
	}
	apiKeys = apiKeys[offset:]
	if limit > 0 && limit < len(apiKeys) {
		apiKeys = apiKeys[:limit]
	}
	return apiKeys, nil
}

// UpdateName renames the key with id when it belongs to ownerID.
func (r *MemoryRepository) UpdateName(_ context.Context, id, ownerID uuid.UUID, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apiKey, ok := r.keys[id]
	if !ok || apiKey.OwnerID != ownerID {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	apiKey.Name = name
	return nil
}

// Delete removes the key with id when it belongs to ownerID.
func (r *MemoryRepository) Delete(_ context.Context, id, ownerID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	apiKey, ok := r.keys[id]
	if !ok || apiKey.OwnerID != ownerID {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	delete(r.keys, id)
	return nil
}

// IncrementUsage adds one use to the key whose lookup hash is secretHash.
func (r *MemoryRepository) IncrementUsage(_ context.Context, secretHash []byte, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, apiKey := range r.keys {
		if !bytes.Equal(apiKey.SecretHash, secretHash) {
			continue
		}
		apiKey.UsageCount++
		if apiKey.LastUsedAt == nil || usedAt.After(*apiKey.LastUsedAt) {
			apiKey.LastUsedAt = &usedAt
		}
		return nil
	}
	return apikeyDomain.ErrAPIKeyNotFound
}

// Len returns the number of stored keys.
func (r *MemoryRepository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.keys)
}

// TxManager runs fn directly. MemoryRepository methods are individually atomic.
type TxManager struct{}

// WithTx calls fn with ctx.
func (TxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func clone(apiKey *apikeyDomain.APIKey) *apikeyDomain.APIKey {
	c := *apiKey
	c.SecretHash = slices.Clone(apiKey.SecretHash)
	c.Ciphertext = slices.Clone(apiKey.Ciphertext)
	c.Nonce = slices.Clone(apiKey.Nonce)
	if apiKey.UsageLimit != nil {
		limit := *apiKey.UsageLimit
		c.UsageLimit = &limit
	}
	if apiKey.LastUsedAt != nil {
		lastUsedAt := *apiKey.LastUsedAt
		c.LastUsedAt = &lastUsedAt
	}
	return &c
}
