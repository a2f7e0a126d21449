package client

import (
	"fmt"
	"time"

	"masterspeak/internal/format"
	"masterspeak/internal/model"
)

const (
	displayTitleMax   = 60
	displaySummaryMax = 120
)

// DisplayRow is one listing row formatted for rendering. Score fields are
// empty when the analysis has no metrics.
type DisplayRow struct {
	AnalysisID string
	Title      string
	Summary    string
	CreatedAgo string
	Overall    string
	Band       string
}

// DisplayRows formats list items for presentation: titles and summaries
// truncated, timestamps relative to now, overall score banded.
func DisplayRows(items []model.AnalysisListItem, now time.Time) []DisplayRow {
	rows := make([]DisplayRow, 0, len(items))
	for _, item := range items {
		row := DisplayRow{
			AnalysisID: item.ID,
			Title:      format.TruncateText(item.SpeechTitle, displayTitleMax),
			Summary:    format.TruncateText(item.Summary, displaySummaryMax),
			CreatedAgo: format.RelativeTime(item.CreatedAt, now),
		}
		if item.Metrics != nil {
			overall := format.OverallScore(item.Metrics)
			row.Overall = fmt.Sprintf("%.1f", overall)
			row.Band = string(format.ScoreBand(overall))
		}
		rows = append(rows, row)
	}
	return rows
}

// Rows formats the snapshot's items for rendering.
func (s ListSnapshot) Rows(now time.Time) []DisplayRow {
	return DisplayRows(s.Items, now)
}
