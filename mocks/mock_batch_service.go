package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodrec/internal/domain"
	"foodrec/internal/service"
)

// MockBatchService is a mock implementation of service.BatchService.
type MockBatchService struct {
	mock.Mock
}

func (m *MockBatchService) RunBatch(ctx context.Context, queries []domain.Query, label string) (*service.BatchReport, error) {
	args := m.Called(ctx, queries, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.BatchReport), args.Error(1)
}
