package model

import "time"

// ShareToken grants time-limited anonymous read access to one analysis.
// Tokens are multi-use and non-revocable; several active tokens may exist for
// the same analysis. Expiry is enforced lazily at read time, there is no
// background sweep.
type ShareToken struct {
	ID                 string    `json:"token_id"`
	AnalysisID         string    `json:"analysis_id"`
	UserID             string    `json:"-"`
	TranscriptIncluded bool      `json:"transcript_included"`
	ExpiresAt          time.Time `json:"expires_at"`
	CreatedAt          time.Time `json:"created_at"`
}

func (t *ShareToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
