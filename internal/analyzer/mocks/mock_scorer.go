package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/analyzer"
)

type MockScorer struct {
	mock.Mock
}

func (m *MockScorer) Score(ctx context.Context, transcript string) (*analyzer.Result, error) {
	args := m.Called(ctx, transcript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*analyzer.Result), args.Error(1)
}
