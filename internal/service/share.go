package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"masterspeak/internal/model"
	"masterspeak/internal/repository"
)

const (
	DefaultShareExpiryDays = 7
	MaxShareExpiryDays     = 30
)

// ShareLink is returned to the owner after creating a share token.
type ShareLink struct {
	ShareURL  string    `json:"share_url"`
	TokenID   string    `json:"token_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ShareService manages time-limited anonymous share access to analyses.
// Repeated creation is allowed and yields independent tokens; tokens are
// multi-use and non-revocable.
type ShareService interface {
	// CreateShareLink mints a new token for an analysis the caller owns.
	// expiresInDays of 0 means the default; out of [1,30] is a validation
	// error. When share links are feature-disabled the analysis reads as
	// missing.
	CreateShareLink(ctx context.Context, userID, analysisID string, expiresInDays int, includeTranscript bool) (*ShareLink, error)

	// GetSharedAnalysis resolves a token anonymously. Unknown and expired
	// tokens are indistinguishable: both are ErrNotFound. The transcript is
	// included only if the owner opted in when the token was created.
	GetSharedAnalysis(ctx context.Context, token string) (*model.SharedAnalysis, error)
}

type shareService struct {
	tokens       repository.ShareTokenRepository
	analyses     repository.AnalysisRepository
	baseURL      string
	shareEnabled bool
	clock        Clock
}

// NewShareService constructs a ShareService. baseURL is the public host
// used to build share URLs.
func NewShareService(tokens repository.ShareTokenRepository, analyses repository.AnalysisRepository, baseURL string, shareEnabled bool, clock Clock) ShareService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &shareService{
		tokens:       tokens,
		analyses:     analyses,
		baseURL:      baseURL,
		shareEnabled: shareEnabled,
		clock:        clock,
	}
}

func (s *shareService) CreateShareLink(ctx context.Context, userID, analysisID string, expiresInDays int, includeTranscript bool) (*ShareLink, error) {
	if !s.shareEnabled {
		return nil, ErrFeatureDisabled
	}
	if expiresInDays == 0 {
		expiresInDays = DefaultShareExpiryDays
	}
	if expiresInDays < 1 || expiresInDays > MaxShareExpiryDays {
		return nil, &ValidationError{
			Field:  "expires_in_days",
			Reason: fmt.Sprintf("must be between 1 and %d", MaxShareExpiryDays),
		}
	}

	a, err := s.analyses.FindByID(ctx, analysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrAccessDenied
	}

	now := s.clock.Now()
	tok := &model.ShareToken{
		ID:                 uuid.NewString(),
		AnalysisID:         a.ID,
		UserID:             userID,
		TranscriptIncluded: includeTranscript,
		ExpiresAt:          now.Add(time.Duration(expiresInDays) * 24 * time.Hour),
		CreatedAt:          now,
	}
	stored, err := s.tokens.Create(ctx, tok)
	if err != nil {
		return nil, fmt.Errorf("save share token: %w", err)
	}

	return &ShareLink{
		ShareURL:  fmt.Sprintf("%s/api/v1/share/%s", s.baseURL, stored.ID),
		TokenID:   stored.ID,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

func (s *shareService) GetSharedAnalysis(ctx context.Context, token string) (*model.SharedAnalysis, error) {
	if token == "" {
		return nil, ErrNotFound
	}

	tok, err := s.tokens.FindByID(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	// Lazy expiry: the row stays, the read path refuses it.
	if tok.IsExpired(s.clock.Now()) {
		return nil, ErrNotFound
	}

	a, err := s.analyses.FindByID(ctx, tok.AnalysisID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	shared := &model.SharedAnalysis{
		AnalysisID:  a.ID,
		SpeechTitle: a.SpeechTitle,
		Summary:     a.Summary,
		Feedback:    a.Feedback,
		Metrics:     a.Metrics,
		CreatedAt:   a.CreatedAt,
		ExpiresAt:   tok.ExpiresAt,
	}
	if tok.TranscriptIncluded {
		shared.Transcript = a.Transcript
	}
	return shared, nil
}
