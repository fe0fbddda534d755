package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
	"github.com/dandi-labs/dandi/internal/metrics"
)

const metricsDomain = "apikeys"

// apiKeyUseCaseWithMetrics decorates APIKeyUseCase with metrics instrumentation.
type apiKeyUseCaseWithMetrics struct {
	next    APIKeyUseCase
	metrics metrics.BusinessMetrics
}

// NewAPIKeyUseCaseWithMetrics wraps an APIKeyUseCase with metrics recording.
func NewAPIKeyUseCaseWithMetrics(useCase APIKeyUseCase, m metrics.BusinessMetrics) APIKeyUseCase {
	return &apiKeyUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (a *apiKeyUseCaseWithMetrics) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Create(ctx, ownerID, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_create", start, err)
	return apiKey, err
}

func (a *apiKeyUseCaseWithMetrics) Import(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.ImportAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Import(ctx, ownerID, input)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_import", start, err)
	return apiKey, err
}

func (a *apiKeyUseCaseWithMetrics) Rename(
	ctx context.Context,
	id, ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Rename(ctx, id, ownerID, name)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_rename", start, err)
	return apiKey, err
}

func (a *apiKeyUseCaseWithMetrics) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	start := time.Now()
	err := a.next.Delete(ctx, id, ownerID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_delete", start, err)
	return err
}

func (a *apiKeyUseCaseWithMetrics) Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Get(ctx, id, ownerID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_get", start, err)
	return apiKey, err
}

func (a *apiKeyUseCaseWithMetrics) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.List(ctx, ownerID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_list", start, err)
	return apiKeys, err
}

func (a *apiKeyUseCaseWithMetrics) ListPage(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKeys, err := a.next.ListPage(ctx, ownerID, offset, limit)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_list_page", start, err)
	return apiKeys, err
}

func (a *apiKeyUseCaseWithMetrics) Reveal(
	ctx context.Context,
	id, ownerID uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.Reveal(ctx, id, ownerID)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_reveal", start, err)
	return apiKey, err
}

func (a *apiKeyUseCaseWithMetrics) RecordUsage(ctx context.Context, secret string) (*apikeyDomain.APIKey, error) {
	start := time.Now()
	apiKey, err := a.next.RecordUsage(ctx, secret)
	metrics.Observe(ctx, a.metrics, metricsDomain, "apikey_record_usage", start, err)
	return apiKey, err
}
