package postgres

import (
	"context"
	"database/sql"

	"masterspeak/internal/model"
	"masterspeak/internal/repository"
)

// ShareTokenPostgres is a PostgreSQL implementation of repository.ShareTokenRepository.
type ShareTokenPostgres struct {
	db *sql.DB
}

// NewShareTokenPostgres creates a new ShareTokenPostgres repository.
func NewShareTokenPostgres(db *sql.DB) *ShareTokenPostgres {
	return &ShareTokenPostgres{db: db}
}

var _ repository.ShareTokenRepository = (*ShareTokenPostgres)(nil)

// Create inserts a new share token row and returns the stored record.
// Tokens are insert-only; there is no update path.
func (r *ShareTokenPostgres) Create(ctx context.Context, t *model.ShareToken) (*model.ShareToken, error) {
	const q = `
		INSERT INTO share_tokens (id, analysis_id, user_id, transcript_included, expires_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, analysis_id, user_id, transcript_included, expires_at, created_at
	`
	row := r.db.QueryRowContext(ctx, q,
		t.ID,
		t.AnalysisID,
		t.UserID,
		t.TranscriptIncluded,
		t.ExpiresAt,
		t.CreatedAt,
	)
	return scanShareToken(row)
}

// FindByID fetches a share token by its ID. Expired tokens are still
// returned; the service layer applies the expiry check.
func (r *ShareTokenPostgres) FindByID(ctx context.Context, id string) (*model.ShareToken, error) {
	const q = `
		SELECT id, analysis_id, user_id, transcript_included, expires_at, created_at
		FROM share_tokens
		WHERE id = $1
	`
	return scanShareToken(r.db.QueryRowContext(ctx, q, id))
}

func scanShareToken(row rowScanner) (*model.ShareToken, error) {
	var t model.ShareToken
	if err := row.Scan(
		&t.ID,
		&t.AnalysisID,
		&t.UserID,
		&t.TranscriptIncluded,
		&t.ExpiresAt,
		&t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
