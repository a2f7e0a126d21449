package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/model"
	"masterspeak/internal/service"
)

type MockShareService struct {
	mock.Mock
}

func (m *MockShareService) CreateShareLink(ctx context.Context, userID, analysisID string, expiresInDays int, includeTranscript bool) (*service.ShareLink, error) {
	args := m.Called(ctx, userID, analysisID, expiresInDays, includeTranscript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ShareLink), args.Error(1)
}

func (m *MockShareService) GetSharedAnalysis(ctx context.Context, token string) (*model.SharedAnalysis, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SharedAnalysis), args.Error(1)
}
