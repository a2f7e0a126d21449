package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"masterspeak/internal/service"
)

type MockExportService struct {
	mock.Mock
}

func (m *MockExportService) Export(ctx context.Context, userID, analysisID string, f service.ExportFormat, includeTranscript bool) (*service.ExportResult, error) {
	args := m.Called(ctx, userID, analysisID, f, includeTranscript)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExportResult), args.Error(1)
}
