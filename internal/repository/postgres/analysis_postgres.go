package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"masterspeak/internal/model"
	"masterspeak/internal/repository"
)

// AnalysisPostgres is a PostgreSQL implementation of repository.AnalysisRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type AnalysisPostgres struct {
	db *sql.DB
}

// NewAnalysisPostgres creates a new AnalysisPostgres repository.
func NewAnalysisPostgres(db *sql.DB) *AnalysisPostgres {
	return &AnalysisPostgres{db: db}
}

var _ repository.AnalysisRepository = (*AnalysisPostgres)(nil)

const analysisColumns = `id, speech_id, user_id, speech_title, transcript, summary, feedback,
		word_count, clarity_score, structure_score, filler_word_count, audio_path, created_at, updated_at`

// Create inserts a new analysis row and returns the stored record.
func (r *AnalysisPostgres) Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error) {
	const q = `
		INSERT INTO analyses (id, speech_id, user_id, speech_title, transcript, summary, feedback,
			word_count, clarity_score, structure_score, filler_word_count, audio_path, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING ` + analysisColumns

	var wordCount, fillerCount sql.NullInt64
	var clarity, structure sql.NullFloat64
	if a.Metrics != nil {
		wordCount = sql.NullInt64{Int64: int64(a.Metrics.WordCount), Valid: true}
		fillerCount = sql.NullInt64{Int64: int64(a.Metrics.FillerWordCount), Valid: true}
		clarity = sql.NullFloat64{Float64: a.Metrics.ClarityScore, Valid: true}
		structure = sql.NullFloat64{Float64: a.Metrics.StructureScore, Valid: true}
	}

	row := r.db.QueryRowContext(ctx, q,
		a.ID,
		a.SpeechID,
		a.UserID,
		a.SpeechTitle,
		nullString(a.Transcript),
		nullString(a.Summary),
		a.Feedback,
		wordCount,
		clarity,
		structure,
		fillerCount,
		nullString(a.AudioPath),
		a.CreatedAt,
		a.UpdatedAt,
	)
	return scanAnalysis(row)
}

// FindByID fetches a single analysis by its ID.
func (r *AnalysisPostgres) FindByID(ctx context.Context, id string) (*model.Analysis, error) {
	q := `SELECT ` + analysisColumns + ` FROM analyses WHERE id = $1`
	return scanAnalysis(r.db.QueryRowContext(ctx, q, id))
}

// List returns the user's analyses using LIMIT/OFFSET pagination and a total count.
func (r *AnalysisPostgres) List(ctx context.Context, userID string, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	const qCount = `SELECT COUNT(*) FROM analyses WHERE user_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, userID).Scan(&total); err != nil {
		return nil, err
	}

	q := `SELECT ` + analysisColumns + `
		FROM analyses
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPage(rows, total)
}

// Search applies the set filters as AND-combined predicates. Each filter is
// appended with its own positional placeholder so omitted filters add no SQL.
func (r *AnalysisPostgres) Search(ctx context.Context, userID string, f repository.SearchFilters, pq repository.PageQuery) (*repository.PageResult[model.Analysis], error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	add := func(clause string, value any) {
		args = append(args, value)
		where = append(where, fmt.Sprintf(clause, len(args)))
	}

	if f.Query != "" {
		args = append(args, f.Query)
		n := len(args)
		where = append(where, fmt.Sprintf(
			"(speech_title ILIKE '%%' || $%d || '%%' OR summary ILIKE '%%' || $%d || '%%')", n, n))
	}
	if f.MinClarity != nil {
		add("clarity_score >= $%d", *f.MinClarity)
	}
	if f.MaxClarity != nil {
		add("clarity_score <= $%d", *f.MaxClarity)
	}
	if f.MinStructure != nil {
		add("structure_score >= $%d", *f.MinStructure)
	}
	if f.MaxStructure != nil {
		add("structure_score <= $%d", *f.MaxStructure)
	}
	if f.StartDate != nil {
		add("created_at >= $%d", *f.StartDate)
	}
	if f.EndDate != nil {
		add("created_at <= $%d", *f.EndDate)
	}

	cond := strings.Join(where, " AND ")

	qCount := `SELECT COUNT(*) FROM analyses WHERE ` + cond
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, args...).Scan(&total); err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT `+analysisColumns+`
		FROM analyses
		WHERE %s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, cond, len(args)+1, len(args)+2)
	rows, err := r.db.QueryContext(ctx, q, append(args, pq.Limit, pq.Offset)...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectPage(rows, total)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (*model.Analysis, error) {
	var a model.Analysis
	var transcript, summary, audioPath sql.NullString
	var wordCount, fillerCount sql.NullInt64
	var clarity, structure sql.NullFloat64

	if err := row.Scan(
		&a.ID,
		&a.SpeechID,
		&a.UserID,
		&a.SpeechTitle,
		&transcript,
		&summary,
		&a.Feedback,
		&wordCount,
		&clarity,
		&structure,
		&fillerCount,
		&audioPath,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return nil, err
	}

	a.Transcript = transcript.String
	a.Summary = summary.String
	a.AudioPath = audioPath.String

	// clarity_score is the sentinel: the four metric columns are always
	// written together, so a null clarity means a metrics-less record.
	if clarity.Valid {
		a.Metrics = &model.AnalysisMetrics{
			WordCount:       int(wordCount.Int64),
			ClarityScore:    clarity.Float64,
			StructureScore:  structure.Float64,
			FillerWordCount: int(fillerCount.Int64),
		}
	}
	return &a, nil
}

func collectPage(rows *sql.Rows, total int) (*repository.PageResult[model.Analysis], error) {
	items := make([]model.Analysis, 0)
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &repository.PageResult[model.Analysis]{Items: items, Total: total}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
