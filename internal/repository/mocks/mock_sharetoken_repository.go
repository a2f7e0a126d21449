package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/model"
)

type MockShareTokenRepository struct {
	mock.Mock
}

func (m *MockShareTokenRepository) Create(ctx context.Context, t *model.ShareToken) (*model.ShareToken, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareToken), args.Error(1)
}

func (m *MockShareTokenRepository) FindByID(ctx context.Context, id string) (*model.ShareToken, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ShareToken), args.Error(1)
}
