package service

import (
	"time"

	"dealership/internal/domain/entity"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockTokenService is a mock type for the service.TokenService interface
type MockTokenService struct {
	mock.Mock
}

// NewMockTokenService creates a mock whose expectations are asserted on test cleanup.
func NewMockTokenService(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockTokenService {
	m := &MockTokenService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockTokenService) Issue(principalID uuid.UUID, kind entity.TokenKind, ttl time.Duration) (string, error) {
	args := m.Called(principalID, kind, ttl)

	return args.String(0), args.Error(1)
}

func (m *MockTokenService) IssuePair(principalID uuid.UUID) (*entity.TokenPair, error) {
	args := m.Called(principalID)
	pair, _ := args.Get(0).(*entity.TokenPair)

	return pair, args.Error(1)
}

func (m *MockTokenService) Verify(token string, kind entity.TokenKind) (*entity.Principal, error) {
	args := m.Called(token, kind)
	principal, _ := args.Get(0).(*entity.Principal)

	return principal, args.Error(1)
}
