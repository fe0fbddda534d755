// Package mocks provides mock implementations of the api key use cases.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	apikeyDomain "github.com/dandi-labs/dandi/internal/apikey/domain"
)

// MockAPIKeyUseCase is a mock implementation of usecase.APIKeyUseCase.
type MockAPIKeyUseCase struct {
	mock.Mock
}

// NewMockAPIKeyUseCase creates a MockAPIKeyUseCase whose expectations are asserted on test cleanup.
func NewMockAPIKeyUseCase(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockAPIKeyUseCase {
	m := &MockAPIKeyUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAPIKeyUseCase) apiKey(args mock.Arguments) (*apikeyDomain.APIKey, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apikeyDomain.APIKey), args.Error(1)
}

// Create mocks the Create method.
func (m *MockAPIKeyUseCase) Create(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.CreateAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, ownerID, input))
}

// Import mocks the Import method.
func (m *MockAPIKeyUseCase) Import(
	ctx context.Context,
	ownerID uuid.UUID,
	input *apikeyDomain.ImportAPIKeyInput,
) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, ownerID, input))
}

// Rename mocks the Rename method.
func (m *MockAPIKeyUseCase) Rename(
	ctx context.Context,
	id, ownerID uuid.UUID,
	name string,
) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, id, ownerID, name))
}

// Delete mocks the Delete method.
func (m *MockAPIKeyUseCase) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	return m.Called(ctx, id, ownerID).Error(0)
}

// Get mocks the Get method.
func (m *MockAPIKeyUseCase) Get(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, id, ownerID))
}

// List mocks the List method.
func (m *MockAPIKeyUseCase) List(ctx context.Context, ownerID uuid.UUID) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

// ListPage mocks the ListPage method.
func (m *MockAPIKeyUseCase) ListPage(
	ctx context.Context,
	ownerID uuid.UUID,
	offset, limit int,
) ([]*apikeyDomain.APIKey, error) {
	args := m.Called(ctx, ownerID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*apikeyDomain.APIKey), args.Error(1)
}

// Reveal mocks the Reveal method.
func (m *MockAPIKeyUseCase) Reveal(ctx context.Context, id, ownerID uuid.UUID) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, id, ownerID))
}

// RecordUsage mocks the RecordUsage method.
func (m *MockAPIKeyUseCase) RecordUsage(ctx context.Context, secret string) (*apikeyDomain.APIKey, error) {
	return m.apiKey(m.Called(ctx, secret))
}
