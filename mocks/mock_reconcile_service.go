package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodrec/internal/domain"
)

// MockReconcileService is a mock implementation of service.ReconcileService.
type MockReconcileService struct {
	mock.Mock
}

func (m *MockReconcileService) ReconcileOne(ctx context.Context, q domain.Query) (*domain.ReconciliationResult, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReconciliationResult), args.Error(1)
}

func (m *MockReconcileService) ReconcileBatch(ctx context.Context, queries []domain.Query) []domain.BatchOutcome {
	args := m.Called(ctx, queries)
	return args.Get(0).([]domain.BatchOutcome)
}
