package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/model"
	"masterspeak/internal/service"
)

type MockAnalysisService struct {
	mock.Mock
}

func (m *MockAnalysisService) List(ctx context.Context, userID string, page, limit int) (*model.Page[model.AnalysisListItem], error) {
	args := m.Called(ctx, userID, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.AnalysisListItem]), args.Error(1)
}

func (m *MockAnalysisService) Get(ctx context.Context, userID, id string) (*model.Analysis, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *MockAnalysisService) Search(ctx context.Context, userID string, p service.SearchParams) (*model.Page[model.AnalysisListItem], error) {
	args := m.Called(ctx, userID, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Page[model.AnalysisListItem]), args.Error(1)
}

func (m *MockAnalysisService) CreateFromText(ctx context.Context, userID, title, text string) (*model.Analysis, error) {
	args := m.Called(ctx, userID, title, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}

func (m *MockAnalysisService) CreateFromAudio(ctx context.Context, userID, title string, r io.Reader, filename, contentType string, size int64) (*model.Analysis, error) {
	args := m.Called(ctx, userID, title, r, filename, contentType, size)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Analysis), args.Error(1)
}
