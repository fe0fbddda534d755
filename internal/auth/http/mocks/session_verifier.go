// Package mocks provides mock implementations for testing HTTP handlers.
package mocks

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSessionVerifier is a mock implementation of SessionVerifier for testing.
type MockSessionVerifier struct {
	mock.Mock
}

// Verify mocks the Verify method of SessionVerifier.
func (m *MockSessionVerifier) Verify(token string) (uuid.UUID, error) {
	args := m.Called(token)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

// NewMockSessionVerifier creates a MockSessionVerifier that asserts its
// expectations when the test ends.
func NewMockSessionVerifier(t *testing.T) *MockSessionVerifier {
	m := &MockSessionVerifier{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}
