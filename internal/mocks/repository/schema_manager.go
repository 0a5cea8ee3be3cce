package repository

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSchemaManager is a mock type for the repository.SchemaManager interface
type MockSchemaManager struct {
	mock.Mock
}

// NewMockSchemaManager creates a mock whose expectations are asserted on test cleanup.
func NewMockSchemaManager(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockSchemaManager {
	m := &MockSchemaManager{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockSchemaManager) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockSchemaManager) Migrate(ctx context.Context) (int, error) {
	args := m.Called(ctx)

	return args.Int(0), args.Error(1)
}
