package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"masterspeak/internal/model"
	"masterspeak/internal/repository"
)

var analysisCols = []string{
	"id", "speech_id", "user_id", "speech_title", "transcript", "summary", "feedback",
	"word_count", "clarity_score", "structure_score", "filler_word_count", "audio_path",
	"created_at", "updated_at",
}

func analysisRow(a *model.Analysis) []driverValue {
	var wordCount, clarity, structure, filler any
	if a.Metrics != nil {
		wordCount = a.Metrics.WordCount
		clarity = a.Metrics.ClarityScore
		structure = a.Metrics.StructureScore
		filler = a.Metrics.FillerWordCount
	}
	return []driverValue{
		a.ID, a.SpeechID, a.UserID, a.SpeechTitle, a.Transcript, a.Summary, a.Feedback,
		wordCount, clarity, structure, filler, a.AudioPath, a.CreatedAt, a.UpdatedAt,
	}
}

type driverValue = driver.Value

func TestAnalysisPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalysisPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	a := &model.Analysis{
		ID:          "a1",
		SpeechID:    "s1",
		UserID:      "u1",
		SpeechTitle: "Keynote rehearsal",
		Transcript:  "Hello everyone",
		Feedback:    "Good pacing",
		Metrics: &model.AnalysisMetrics{
			WordCount:       2,
			ClarityScore:    8,
			StructureScore:  6,
			FillerWordCount: 1,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO analyses").
		WillReturnRows(sqlmock.NewRows(analysisCols).AddRow(analysisRow(a)...))

	result, err := repo.Create(ctx, a)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, a.ID, result.ID)
	assert.NotNil(t, result.Metrics)
	assert.Equal(t, 8.0, result.Metrics.ClarityScore)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalysisPostgres(db)
	ctx := context.Background()

	t.Run("found with metrics", func(t *testing.T) {
		a := &model.Analysis{
			ID: "a1", SpeechID: "s1", UserID: "u1", SpeechTitle: "Talk",
			Feedback: "ok",
			Metrics:  &model.AnalysisMetrics{WordCount: 100, ClarityScore: 7.5, StructureScore: 8, FillerWordCount: 3},
		}
		mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
			WithArgs("a1").
			WillReturnRows(sqlmock.NewRows(analysisCols).AddRow(analysisRow(a)...))

		got, err := repo.FindByID(ctx, "a1")
		assert.NoError(t, err)
		assert.Equal(t, "a1", got.ID)
		assert.NotNil(t, got.Metrics)
		assert.Equal(t, 3, got.Metrics.FillerWordCount)
	})

	t.Run("found without metrics", func(t *testing.T) {
		a := &model.Analysis{ID: "a2", SpeechID: "s2", UserID: "u1", SpeechTitle: "Legacy", Feedback: ""}
		mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
			WithArgs("a2").
			WillReturnRows(sqlmock.NewRows(analysisCols).AddRow(analysisRow(a)...))

		got, err := repo.FindByID(ctx, "a2")
		assert.NoError(t, err)
		assert.Nil(t, got.Metrics)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM analyses WHERE id").
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "missing")
		assert.ErrorIs(t, err, sql.ErrNoRows)
		assert.Nil(t, got)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisPostgres_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalysisPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(25))

	a := &model.Analysis{ID: "a1", SpeechID: "s1", UserID: "u1", SpeechTitle: "Talk", Feedback: "ok"}
	mock.ExpectQuery("SELECT (.+) FROM analyses").
		WithArgs("u1", 20, 0).
		WillReturnRows(sqlmock.NewRows(analysisCols).AddRow(analysisRow(a)...))

	res, err := repo.List(ctx, "u1", repository.PageQuery{Limit: 20, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 25, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnalysisPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := NewAnalysisPostgres(db)
	ctx := context.Background()

	t.Run("all filters combined", func(t *testing.T) {
		minC, maxC := 5.0, 9.0
		start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		f := repository.SearchFilters{
			Query:      "keynote",
			MinClarity: &minC,
			MaxClarity: &maxC,
			StartDate:  &start,
		}

		mock.ExpectQuery("SELECT COUNT").
			WithArgs("u1", "keynote", minC, maxC, start).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

		a := &model.Analysis{ID: "a1", SpeechID: "s1", UserID: "u1", SpeechTitle: "keynote", Feedback: "ok"}
		mock.ExpectQuery("SELECT (.+) FROM analyses").
			WithArgs("u1", "keynote", minC, maxC, start, 10, 0).
			WillReturnRows(sqlmock.NewRows(analysisCols).AddRow(analysisRow(a)...))

		res, err := repo.Search(ctx, "u1", f, repository.PageQuery{Limit: 10, Offset: 0})
		assert.NoError(t, err)
		assert.Equal(t, 1, res.Total)
		assert.Len(t, res.Items, 1)
	})

	t.Run("no filters behaves like list", func(t *testing.T) {
		mock.ExpectQuery("SELECT COUNT").
			WithArgs("u1").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectQuery("SELECT (.+) FROM analyses").
			WithArgs("u1", 10, 0).
			WillReturnRows(sqlmock.NewRows(analysisCols))

		res, err := repo.Search(ctx, "u1", repository.SearchFilters{}, repository.PageQuery{Limit: 10, Offset: 0})
		assert.NoError(t, err)
		assert.Equal(t, 0, res.Total)
		assert.Empty(t, res.Items)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}
