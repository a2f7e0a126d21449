package model

import "time"

// Analysis represents one scored evaluation of a speech or text submission.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, export) without coupling to persistence.
type Analysis struct {
	ID          string           `json:"analysis_id"`
	SpeechID    string           `json:"speech_id"`
	UserID      string           `json:"user_id"`
	SpeechTitle string           `json:"speech_title"`
	Transcript  string           `json:"transcript,omitempty"`
	Metrics     *AnalysisMetrics `json:"metrics,omitempty"`
	Summary     string           `json:"summary,omitempty"`
	Feedback    string           `json:"feedback"`
	AudioPath   string           `json:"-"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// AnalysisMetrics holds the computed scores for an analysis. Metrics are
// optional on Analysis because legacy and not-yet-scored records lack them.
type AnalysisMetrics struct {
	WordCount       int     `json:"word_count"`
	ClarityScore    float64 `json:"clarity_score"`
	StructureScore  float64 `json:"structure_score"`
	FillerWordCount int     `json:"filler_word_count"`
}

// AnalysisListItem is the projection of Analysis used by list and search
// views. Derived from Analysis, never stored on its own.
type AnalysisListItem struct {
	ID          string           `json:"analysis_id"`
	SpeechTitle string           `json:"speech_title"`
	Summary     string           `json:"summary,omitempty"`
	Metrics     *AnalysisMetrics `json:"metrics,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
}

// ListItem projects the analysis into its list-view shape.
func (a *Analysis) ListItem() AnalysisListItem {
	return AnalysisListItem{
		ID:          a.ID,
		SpeechTitle: a.SpeechTitle,
		Summary:     a.Summary,
		Metrics:     a.Metrics,
		CreatedAt:   a.CreatedAt,
	}
}

// SharedAnalysis is the redacted view returned to an anonymous bearer of a
// share token. Transcript is present only when the owner opted in at
// share-creation time.
type SharedAnalysis struct {
	AnalysisID  string           `json:"analysis_id"`
	SpeechTitle string           `json:"speech_title"`
	Summary     string           `json:"summary,omitempty"`
	Feedback    string           `json:"feedback"`
	Metrics     *AnalysisMetrics `json:"metrics,omitempty"`
	Transcript  string           `json:"transcript,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	ExpiresAt   time.Time        `json:"expires_at"`
}
