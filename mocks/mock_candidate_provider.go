package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"foodrec/internal/domain"
)

// MockCandidateProvider is a mock implementation of port.CandidateProvider.
type MockCandidateProvider struct {
	mock.Mock
}

func (m *MockCandidateProvider) Search(ctx context.Context, q domain.NormalizedQuery, limit int) ([]domain.CandidateRecord, error) {
	args := m.Called(ctx, q, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CandidateRecord), args.Error(1)
}

func (m *MockCandidateProvider) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
