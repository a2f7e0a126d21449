package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"masterspeak/internal/analyzer"
	"masterspeak/internal/model"
	"masterspeak/internal/repository"
	"masterspeak/internal/storage"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// SearchParams carry the optional search filters together with pagination.
type SearchParams struct {
	Filters repository.SearchFilters
	Page    int
	Limit   int
}

// AnalysisService defines the use cases for listing, retrieving and creating
// speech analyses. All operations are scoped to the calling user; an
// analysis owned by someone else reads as ErrAccessDenied.
type AnalysisService interface {
	// List returns one page of the caller's analyses, newest first. An
	// out-of-range page yields an empty page, not an error.
	List(ctx context.Context, userID string, page, limit int) (*model.Page[model.AnalysisListItem], error)

	// Get returns a single analysis. ErrNotFound if the id is unknown,
	// ErrAccessDenied if it belongs to another user.
	Get(ctx context.Context, userID, id string) (*model.Analysis, error)

	// Search returns one page matching all set filters (AND-combined).
	// Min/max ordering is not validated; a min above its max just matches
	// nothing.
	Search(ctx context.Context, userID string, p SearchParams) (*model.Page[model.AnalysisListItem], error)

	// CreateFromText scores the submitted text and stores the analysis.
	// A scoring failure degrades to a metrics-less record rather than
	// failing the submission.
	CreateFromText(ctx context.Context, userID, title, text string) (*model.Analysis, error)

	// CreateFromAudio stores the uploaded audio and creates a metrics-less
	// analysis record awaiting transcription.
	CreateFromAudio(ctx context.Context, userID, title string, r io.Reader, filename, contentType string, size int64) (*model.Analysis, error)
}

type analysisService struct {
	repo   repository.AnalysisRepository
	store  storage.Storage
	scorer analyzer.Scorer
	clock  Clock
}

// NewAnalysisService constructs a new AnalysisService.
func NewAnalysisService(repo repository.AnalysisRepository, store storage.Storage, scorer analyzer.Scorer, clock Clock) AnalysisService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &analysisService{repo: repo, store: store, scorer: scorer, clock: clock}
}

func normalizePage(page, limit int) (int, int, error) {
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultPageLimit
	}
	if page < 1 {
		return 0, 0, &ValidationError{Field: "page", Reason: "must be >= 1"}
	}
	if limit < 1 || limit > MaxPageLimit {
		return 0, 0, &ValidationError{Field: "limit", Reason: fmt.Sprintf("must be between 1 and %d", MaxPageLimit)}
	}
	return page, limit, nil
}

func toListItems(items []model.Analysis) []model.AnalysisListItem {
	out := make([]model.AnalysisListItem, 0, len(items))
	for i := range items {
		out = append(out, items[i].ListItem())
	}
	return out
}

func (s *analysisService) List(ctx context.Context, userID string, page, limit int) (*model.Page[model.AnalysisListItem], error) {
	page, limit, err := normalizePage(page, limit)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.List(ctx, userID, repository.PageQuery{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return nil, err
	}
	return model.NewPage(toListItems(res.Items), res.Total, page, limit), nil
}

func (s *analysisService) Get(ctx context.Context, userID, id string) (*model.Analysis, error) {
	if id == "" {
		return nil, &ValidationError{Field: "id", Reason: "required"}
	}
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrAccessDenied
	}
	return a, nil
}

func (s *analysisService) Search(ctx context.Context, userID string, p SearchParams) (*model.Page[model.AnalysisListItem], error) {
	page, limit, err := normalizePage(p.Page, p.Limit)
	if err != nil {
		return nil, err
	}

	res, err := s.repo.Search(ctx, userID, p.Filters, repository.PageQuery{Limit: limit, Offset: (page - 1) * limit})
	if err != nil {
		return nil, err
	}
	return model.NewPage(toListItems(res.Items), res.Total, page, limit), nil
}

func (s *analysisService) CreateFromText(ctx context.Context, userID, title, text string) (*model.Analysis, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "speech_title", Reason: "required"}
	}
	if strings.TrimSpace(text) == "" {
		return nil, &ValidationError{Field: "text", Reason: "required"}
	}

	now := s.clock.Now()
	a := &model.Analysis{
		ID:          uuid.NewString(),
		SpeechID:    uuid.NewString(),
		UserID:      userID,
		SpeechTitle: title,
		Transcript:  text,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// A scorer outage must not lose the submission; the record is stored
	// without metrics and can be re-scored later.
	if result, err := s.scorer.Score(ctx, text); err == nil {
		a.Metrics = &result.Metrics
		a.Summary = result.Summary
		a.Feedback = result.Feedback
	}

	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return stored, nil
}

func (s *analysisService) CreateFromAudio(ctx context.Context, userID, title string, r io.Reader, filename, contentType string, size int64) (*model.Analysis, error) {
	if r == nil {
		return nil, &ValidationError{Field: "file", Reason: "required"}
	}
	if strings.TrimSpace(title) == "" {
		return nil, &ValidationError{Field: "speech_title", Reason: "required"}
	}

	ext := filepath.Ext(filename)
	key := filepath.ToSlash(filepath.Join("audio", uuid.NewString()+ext))

	objInfo, err := s.store.Put(ctx, key, r, storage.PutObjectOptions{
		Size:        size,
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("upload audio: %w", err)
	}

	now := s.clock.Now()
	a := &model.Analysis{
		ID:          uuid.NewString(),
		SpeechID:    uuid.NewString(),
		UserID:      userID,
		SpeechTitle: title,
		AudioPath:   objInfo.Key,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	stored, err := s.repo.Create(ctx, a)
	if err != nil {
		// Rollback: delete the object from storage
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			return nil, fmt.Errorf("save analysis failed: %v; rollback delete failed: %v", err, delErr)
		}
		return nil, fmt.Errorf("save analysis failed: %w", err)
	}
	return stored, nil
}
