package format

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"masterspeak/internal/model"
)

func TestRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		ts   time.Time
		want string
	}{
		{name: "30 seconds ago", ts: now.Add(-30 * time.Second), want: "Just now"},
		{name: "59 seconds ago", ts: now.Add(-59 * time.Second), want: "Just now"},
		{name: "90 seconds ago", ts: now.Add(-90 * time.Second), want: "1 minute ago"},
		{name: "5 minutes ago", ts: now.Add(-5 * time.Minute), want: "5 minutes ago"},
		{name: "59 minutes ago", ts: now.Add(-59 * time.Minute), want: "59 minutes ago"},
		{name: "1 hour ago", ts: now.Add(-1 * time.Hour), want: "1 hour ago"},
		{name: "3 hours ago", ts: now.Add(-3 * time.Hour), want: "3 hours ago"},
		{name: "23 hours ago", ts: now.Add(-23 * time.Hour), want: "23 hours ago"},
		{name: "2 days ago", ts: now.Add(-48 * time.Hour), want: "2 days ago"},
		{name: "exactly 7 days ago", ts: now.Add(-7 * 24 * time.Hour), want: "7 days ago"},
		{name: "10 days ago falls to date", ts: now.Add(-10 * 24 * time.Hour), want: "Jun 5, 2025"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(tt.ts, now))
		})
	}
}

func TestParseRelativeTime(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("valid timestamp", func(t *testing.T) {
		got, err := ParseRelativeTime("2025-06-15T09:00:00Z", now)
		assert.NoError(t, err)
		assert.Equal(t, "3 hours ago", got)
	})

	t.Run("malformed timestamp", func(t *testing.T) {
		_, err := ParseRelativeTime("not-a-date", now)
		assert.Error(t, err)
	})
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		maxLen int
		want   string
	}{
		{name: "under limit unchanged", text: "short", maxLen: 100, want: "short"},
		{name: "exactly at limit unchanged", text: "hello", maxLen: 5, want: "hello"},
		{name: "cut mid-word", text: "hello world", maxLen: 5, want: "hello..."},
		{name: "trailing space trimmed before ellipsis", text: "hello world", maxLen: 6, want: "hello..."},
		{name: "empty", text: "", maxLen: 10, want: ""},
		{name: "zero max uses default", text: "abc", maxLen: 0, want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TruncateText(tt.text, tt.maxLen))
		})
	}
}

func TestOverallScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics *model.AnalysisMetrics
		want    float64
	}{
		{name: "nil metrics scores zero", metrics: nil, want: 0},
		{
			name:    "weighted sum",
			metrics: &model.AnalysisMetrics{ClarityScore: 8, StructureScore: 6, FillerWordCount: 2},
			// 0.4*8 + 0.4*6 + 0.2*(10-2) = 3.2 + 2.4 + 1.6
			want: 7.2,
		},
		{
			name:    "filler penalty floored at zero",
			metrics: &model.AnalysisMetrics{ClarityScore: 10, StructureScore: 10, FillerWordCount: 25},
			want:    8.0,
		},
		{
			name:    "perfect",
			metrics: &model.AnalysisMetrics{ClarityScore: 10, StructureScore: 10, FillerWordCount: 0},
			want:    10.0,
		},
		{
			name:    "rounds to one decimal",
			metrics: &model.AnalysisMetrics{ClarityScore: 7.33, StructureScore: 6.21, FillerWordCount: 4},
			// 2.932 + 2.484 + 1.2 = 6.616 -> 6.6
			want: 6.6,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, OverallScore(tt.metrics), 1e-9)
		})
	}
}

func TestScoreBand(t *testing.T) {
	assert.Equal(t, BandGreen, ScoreBand(8.0))
	assert.Equal(t, BandGreen, ScoreBand(9.5))
	assert.Equal(t, BandYellow, ScoreBand(6.0))
	assert.Equal(t, BandYellow, ScoreBand(7.9))
	assert.Equal(t, BandRed, ScoreBand(5.9))
	assert.Equal(t, BandRed, ScoreBand(0))
}
