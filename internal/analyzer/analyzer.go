// Package analyzer scores speech transcripts. The scoring model itself is an
// external black box reached over HTTP; this package only defines the
// contract and the OpenAI-backed implementation.
package analyzer

import (
	"context"

	"masterspeak/internal/model"
)

// Result is what the scorer produces for one transcript.
type Result struct {
	Metrics  model.AnalysisMetrics
	Summary  string
	Feedback string
}

// Scorer evaluates a transcript into metrics and written feedback.
type Scorer interface {
	Score(ctx context.Context, transcript string) (*Result, error)
}
