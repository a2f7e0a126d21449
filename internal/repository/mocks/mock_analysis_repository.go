package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/model"
	"masterspeak/internal/repository"
)

type MockAnalysisRepository struct {
	mock.Mock
}

func (m *MockAnalysisRepository) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	args := m.Called(ctx, a)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *MockAnalysisRepository) FindByID(ctx context.Context, id string) (*model.Analysis, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *MockAnalysisRepository) List(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	args := m.Called(ctx, userID, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Analysis]), args.Error(1)
}

func (m *MockAnalysisRepository) Search(ctx context.Context, userID string, f repository.SearchFilters, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	args := m.Called(ctx, userID, f, pq)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.Analysis]), args.Error(1)
}
