package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"masterspeak/internal/model"
)

func TestDisplayRows(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("scored item", func(t *testing.T) {
		rows := DisplayRows([]model.AnalysisListItem{{
			ID:          "a1",
			SpeechTitle: "Quarterly All-Hands Keynote",
			Summary:     "Strong opening, clear structure throughout.",
			Metrics: &model.AnalysisMetrics{
				ClarityScore:    8.0,
				StructureScore:  7.0,
				FillerWordCount: 5,
			},
			CreatedAt: now.Add(-90 * time.Second),
		}}, now)

		require.Len(t, rows, 1)
		assert.Equal(t, "Quarterly All-Hands Keynote", rows[0].Title)
		assert.Equal(t, "1 minute ago", rows[0].CreatedAgo)
		// 0.4*8.0 + 0.4*7.0 + 0.2*5 = 7.0
		assert.Equal(t, "7.0", rows[0].Overall)
		assert.Equal(t, "yellow", rows[0].Band)
	})

	t.Run("metrics-less item has no score", func(t *testing.T) {
		rows := DisplayRows([]model.AnalysisListItem{{
			ID:          "a2",
			SpeechTitle: "Uploaded Recording",
			CreatedAt:   now.Add(-3 * time.Hour),
		}}, now)

		require.Len(t, rows, 1)
		assert.Empty(t, rows[0].Overall)
		assert.Empty(t, rows[0].Band)
		assert.Equal(t, "3 hours ago", rows[0].CreatedAgo)
	})

	t.Run("long fields truncated", func(t *testing.T) {
		long := make([]byte, 0, 200)
		for i := 0; i < 40; i++ {
			long = append(long, "word "...)
		}
		rows := DisplayRows([]model.AnalysisListItem{{
			SpeechTitle: string(long),
			Summary:     string(long),
			CreatedAt:   now,
		}}, now)

		assert.LessOrEqual(t, len([]rune(rows[0].Title)), displayTitleMax+3)
		assert.LessOrEqual(t, len([]rune(rows[0].Summary)), displaySummaryMax+3)
		assert.Equal(t, "Just now", rows[0].CreatedAgo)
	})
}
