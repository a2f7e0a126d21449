package service

import (
	"context"
	"encoding/json"
	"fmt"

	"masterspeak/internal/export"
	"masterspeak/internal/model"
)

// ExportFormat selects the export document type.
type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatJSON ExportFormat = "json"
)

// ExportResult is a rendered export document.
type ExportResult struct {
	Data        []byte
	ContentType string
	Filename    string
}

// ExportService renders an owned analysis into a downloadable document.
// Disabled exports read as missing, the same ErrNotFound shape the HTTP
// layer produces for an unknown analysis.
type ExportService interface {
	Export(ctx context.Context, userID, analysisID string, f ExportFormat, includeTranscript bool) (*ExportResult, error)
}

type exportService struct {
	analyses      AnalysisService
	exportEnabled bool
}

// NewExportService constructs an ExportService. Ownership and existence
// checks are delegated to the analysis service.
func NewExportService(analyses AnalysisService, exportEnabled bool) ExportService {
	return &exportService{analyses: analyses, exportEnabled: exportEnabled}
}

func (s *exportService) Export(ctx context.Context, userID, analysisID string, f ExportFormat, includeTranscript bool) (*ExportResult, error) {
	if !s.exportEnabled {
		return nil, ErrFeatureDisabled
	}
	if f == "" {
		f = FormatPDF
	}
	if f != FormatPDF && f != FormatJSON {
		return nil, &ValidationError{Field: "format", Reason: `must be "pdf" or "json"`}
	}

	a, err := s.analyses.Get(ctx, userID, analysisID)
	if err != nil {
		return nil, err
	}

	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(exportView(a, includeTranscript), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportBackend, err)
		}
		return &ExportResult{
			Data:        data,
			ContentType: "application/json",
			Filename:    fmt.Sprintf("analysis-%s.json", a.ID),
		}, nil
	default:
		data, err := export.PDF(a, includeTranscript)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExportBackend, err)
		}
		return &ExportResult{
			Data:        data,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("analysis-%s.pdf", a.ID),
		}, nil
	}
}

// exportView strips the transcript unless it was requested.
func exportView(a *model.Analysis, includeTranscript bool) *model.Analysis {
	if includeTranscript {
		return a
	}
	clone := *a
	clone.Transcript = ""
	return &clone
}
