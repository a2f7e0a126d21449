package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"masterspeak/internal/model"
	repoMocks "masterspeak/internal/repository/mocks"
)

func newExportDeps(exportEnabled bool) (*repoMocks.MockAnalysisRepository, ExportService) {
	mRepo := new(repoMocks.MockAnalysisRepository)
	analyses := NewAnalysisService(mRepo, nil, nil, fakeClock{t: testNow})
	return mRepo, NewExportService(analyses, exportEnabled)
}

func exportFixture() *model.Analysis {
	return &model.Analysis{
		ID:          "a1",
		UserID:      "u1",
		SpeechTitle: "Quarterly review",
		Transcript:  "the full transcript",
		Summary:     "went fine",
		Feedback:    "slow down",
		Metrics:     &model.AnalysisMetrics{WordCount: 3, ClarityScore: 8, StructureScore: 7, FillerWordCount: 1},
		CreatedAt:   testNow,
	}
}

func TestExportService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("pdf happy path", func(t *testing.T) {
		mRepo, svc := newExportDeps(true)
		mRepo.On("FindByID", ctx, "a1").Return(exportFixture(), nil)

		res, err := svc.Export(ctx, "u1", "a1", FormatPDF, false)
		assert.NoError(t, err)
		assert.Equal(t, "application/pdf", res.ContentType)
		assert.Equal(t, "analysis-a1.pdf", res.Filename)
		// %PDF magic bytes
		assert.True(t, len(res.Data) > 4 && string(res.Data[:4]) == "%PDF")
	})

	t.Run("json export honors transcript switch", func(t *testing.T) {
		mRepo, svc := newExportDeps(true)
		mRepo.On("FindByID", ctx, "a1").Return(exportFixture(), nil).Twice()

		withRes, err := svc.Export(ctx, "u1", "a1", FormatJSON, true)
		assert.NoError(t, err)
		withoutRes, err2 := svc.Export(ctx, "u1", "a1", FormatJSON, false)
		assert.NoError(t, err2)

		var with, without map[string]any
		assert.NoError(t, json.Unmarshal(withRes.Data, &with))
		assert.NoError(t, json.Unmarshal(withoutRes.Data, &without))
		assert.Equal(t, "the full transcript", with["transcript"])
		_, present := without["transcript"]
		assert.False(t, present)
	})

	t.Run("feature disabled reads as missing", func(t *testing.T) {
		_, svc := newExportDeps(false)

		_, err := svc.Export(ctx, "u1", "a1", FormatPDF, false)
		assert.ErrorIs(t, err, ErrFeatureDisabled)
	})

	t.Run("ownership enforced", func(t *testing.T) {
		mRepo, svc := newExportDeps(true)
		other := exportFixture()
		other.UserID = "someone-else"
		mRepo.On("FindByID", ctx, "a1").Return(other, nil)

		_, err := svc.Export(ctx, "u1", "a1", FormatPDF, false)
		assert.ErrorIs(t, err, ErrAccessDenied)
	})

	t.Run("unknown format rejected", func(t *testing.T) {
		_, svc := newExportDeps(true)

		_, err := svc.Export(ctx, "u1", "a1", "docx", false)
		var verr *ValidationError
		assert.ErrorAs(t, err, &verr)
	})
}
