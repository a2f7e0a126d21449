package repository

import (
	"context"
	"time"

	"masterspeak/internal/model"
)

// AnalysisRepository defines data access for analyses using SQL queries only.
// No business logic here — strictly persistence operations.
type AnalysisRepository interface {
	// Create inserts a new analysis record and returns the stored row.
	Create(ctx context.Context, a *model.Analysis) (*model.Analysis, error)

	// FindByID returns an analysis by its ID regardless of owner; the
	// service layer decides whether the caller may see it.
	FindByID(ctx context.Context, id string) (*model.Analysis, error)

	// List returns one page of the given user's analyses, newest first,
	// together with the total row count.
	List(ctx context.Context, userID string, pq PageQuery) (*PageResult[model.Analysis], error)

	// Search returns one page matching all set filters (AND-combined).
	// Filter ordering (min <= max) is the caller's responsibility.
	Search(ctx context.Context, userID string, f SearchFilters, pq PageQuery) (*PageResult[model.Analysis], error)
}

// ShareTokenRepository persists share tokens. Tokens are never mutated;
// expiry is enforced by the reader, not by deletion.
type ShareTokenRepository interface {
	Create(ctx context.Context, t *model.ShareToken) (*model.ShareToken, error)
	FindByID(ctx context.Context, id string) (*model.ShareToken, error)
}

// PageQuery holds limit/offset pagination parameters.
type PageQuery struct {
	Limit  int
	Offset int
}

// PageResult is a generic pagination result wrapper.
// T is typically a model type.
type PageResult[T any] struct {
	Items []T
	Total int
}

// SearchFilters are optional, independently combinable constraints for
// Search. Nil pointers impose no constraint.
type SearchFilters struct {
	Query        string
	MinClarity   *float64
	MaxClarity   *float64
	MinStructure *float64
	MaxStructure *float64
	StartDate    *time.Time
	EndDate      *time.Time
}
