package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	apikeyService "github.com/dandi-labs/dandi/internal/apikey/service"
	"github.com/dandi-labs/dandi/internal/database"
)

// apiKeyUseCase implements APIKeyUseCase.
type apiKeyUseCase struct {
	txManager  database.TxManager
	apiKeyRepo APIKeyRepository
	generator  apikeyService.KeyGenerator
	sealer     apikeyService.SecretSealer
	now        func() time.Time
}

// Create validates the input, then generates and stores a new secret,
// regenerating on collision up to MaxCreateAttempts times.
func (a *apiKeyUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apikeyDomain.ErrBlankName
	}
	if !input.Class.Valid() {
		return nil, apikeyDomain.ErrInvalidKeyClass
	}
	if input.UsageLimit != nil && *input.UsageLimit <= 0 {
		return nil, apikeyDomain.ErrInvalidUsageLimit
	}

	for range apikeyDomain.MaxCreateAttempts {
		apiKey, err := a.newAPIKey(ownerID, name, a.generator.Generate(input.Class), input.Class)
		if err != nil {
			return nil, err
		}
		apiKey.UsageLimit = input.UsageLimit

		err = a.apiKeyRepo.Create(ctx, apiKey)
		if errors.Is(err, apikeyDomain.ErrAPIKeyAlreadyExists) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return apiKey, nil
	}

	return nil, apikeyDomain.ErrSecretGenerationExhausted
}

// Import stores a caller supplied secret after checking it is not already
// stored. The check and the insert share a transaction; the unique index on
// the lookup hash catches the remaining race.
func (a *apiKeyUseCase) Import(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.ImportAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apikeyDomain.ErrBlankName
	}
	secret := strings.TrimSpace(input.Secret)
	if secret == "" {
		return nil, apikeyDomain.ErrBlankSecret
	}
	if !input.Class.Valid() {
		return nil, apikeyDomain.ErrInvalidKeyClass
	}

	apiKey, err := a.newAPIKey(ownerID, name, secret, input.Class)
	if err != nil {
		return nil, err
	}

	err = a.txManager.WithTx(ctx, func(ctx context.Context) error {
		_, err := a.apiKeyRepo.GetBySecretHash(ctx, apiKey.SecretHash)
		switch {
		case err == nil:
			return apikeyDomain.ErrAPIKeyAlreadyExists
		case !errors.Is(err, apikeyDomain.ErrAPIKeyNotFound):
			return err
		}
		return a.apiKeyRepo.Create(ctx, apiKey)
	})
	if err != nil {
		return nil, err
	}

	return apiKey, nil
}

// Rename updates the name and returns the stored key. Secret, usage and
// creation time are left untouched.
func (a *apiKeyUseCase) Rename(
	ctx context.Context,
	id, ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apikeyDomain.ErrBlankName
	}

	var apiKey *apikeyDomain.APIKey
	err := a.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := a.apiKeyRepo.UpdateName(ctx, id, ownerID, name); err != nil {
			return err
		}

		var err error
		apiKey, err = a.apiKeyRepo.Get(ctx, id, ownerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return a.open(apiKey)
}

// Delete removes the key owned by ownerID.
func (a *apiKeyUseCase) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return a.apiKeyRepo.Delete(ctx, id, ownerID)
}

// Get returns the stored key for masked reads.
func (a *apiKeyUseCase) Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return a.open(apiKey)
}

// List returns every key of the owner, newest first.
func (a *apiKeyUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	return a.ListPage(ctx, ownerID, 0, 0)
}

// ListPage returns a page of the owner's keys, newest first.
func (a *apiKeyUseCase) ListPage(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	apiKeys, err := a.apiKeyRepo.ListByOwner(ctx, ownerID, offset, limit)
	if err != nil {
		return nil, err
	}

	for _, apiKey := range apiKeys {
		if _, err := a.open(apiKey); err != nil {
			return nil, err
		}
	}
	return apiKeys, nil
}

// Reveal returns the key with its plaintext secret.
func (a *apiKeyUseCase) Reveal(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	apiKey, err := a.apiKeyRepo.Get(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	return a.open(apiKey)
}

// RecordUsage increments the usage counter of the key holding secret in a
// single atomic update and returns the key as stored afterwards.
func (a *apiKeyUseCase) RecordUsage(ctx context.Context, secret string) (*apikeyDomain.APIKey, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, apikeyDomain.ErrBlankSecret
	}

	hash := a.sealer.Hash(secret)
	if err := a.apiKeyRepo.IncrementUsage(ctx, hash, a.now().UTC()); err != nil {
		return nil, err
	}

	apiKey, err := a.apiKeyRepo.GetBySecretHash(ctx, hash)
	if err != nil {
		return nil, err
	}
	apiKey.Secret = secret
	return apiKey, nil
}

// newAPIKey builds a key with a fresh id and its sealed secret.
func (a *apiKeyUseCase) newAPIKey(
	ownerID uuid.UUID,
	name, secret string,
	class apikeyDomain.KeyClass,
) (*apikeyDomain.APIKey, error) {
	id := uuid.Must(uuid.NewV7())

	ciphertext, nonce, err := a.sealer.Seal(id, secret)
	if err != nil {
		return nil, err
	}

	return &apikeyDomain.APIKey{
		ID:         id,
		OwnerID:    ownerID,
		Name:       name,
		Secret:     secret,
		SecretHash: a.sealer.Hash(secret),
		Ciphertext: ciphertext,
		Nonce:      nonce,
		Class:      class,
		CreatedAt:  a.now().UTC(),
	}, nil
}

// open decrypts the stored secret into apiKey.Secret.
func (a *apiKeyUseCase) open(apiKey *apikeyDomain.APIKey) (*apikeyDomain.APIKey, error) {
	secret, err := a.sealer.Open(apiKey.ID, apiKey.Ciphertext, apiKey.Nonce)
	if err != nil {
		return nil, err
	}
	apiKey.Secret = secret
	return apiKey, nil
}

// NewAPIKeyUseCase creates a new APIKeyUseCase with the provided dependencies.
func NewAPIKeyUseCase(
	txManager database.TxManager,
	apiKeyRepo APIKeyRepository,
	generator apikeyService.KeyGenerator,
	sealer apikeyService.SecretSealer,
) APIKeyUseCase {
	return &apiKeyUseCase{
		txManager:  txManager,
		apiKeyRepo: apiKeyRepo,
		generator:  generator,
		sealer:     sealer,
		now:        time.Now,
	}
}
