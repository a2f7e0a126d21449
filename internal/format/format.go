// Package format contains pure display helpers for analysis views:
// relative timestamps, text truncation, overall-score aggregation and
// score banding. No I/O and no state.
package format

import (
	"fmt"
	"math"
	"time"

	"masterspeak/internal/model"
)

// DefaultTruncateLength is used when TruncateText is called with a
// non-positive max length.
const DefaultTruncateLength = 100

// RelativeTime buckets the elapsed time between ts and now into a human
// readable string. Buckets are half-open: anything older than 7 full days
// falls through to an absolute date.
func RelativeTime(ts, now time.Time) string {
	diff := now.Sub(ts)

	minutes := int(diff.Minutes())
	hours := int(diff.Hours())
	days := hours / 24

	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return plural(minutes, "minute") + " ago"
	case hours < 24:
		return plural(hours, "hour") + " ago"
	case days <= 7:
		return plural(days, "day") + " ago"
	default:
		return ts.Format("Jan 2, 2006")
	}
}

// ParseRelativeTime parses an RFC 3339 timestamp and formats it relative to
// now. A malformed timestamp is an error, never a garbage string.
func ParseRelativeTime(iso string, now time.Time) (string, error) {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", iso, err)
	}
	return RelativeTime(ts, now), nil
}

// TruncateText cuts text to maxLen runes, trims trailing whitespace from the
// cut, and appends "...". Text at or under the limit is returned unchanged.
func TruncateText(text string, maxLen int) string {
	if maxLen <= 0 {
		maxLen = DefaultTruncateLength
	}
	runes := []rune(text)
	if len(runes) <= maxLen {
		return text
	}
	cut := string(runes[:maxLen])
	for len(cut) > 0 && (cut[len(cut)-1] == ' ' || cut[len(cut)-1] == '\t' || cut[len(cut)-1] == '\n') {
		cut = cut[:len(cut)-1]
	}
	return cut + "..."
}

// OverallScore aggregates metrics into a single 0-10 score:
// 40% clarity, 40% structure, 20% filler-word penalty (10 minus the filler
// count, floored at 0). Rounded to one decimal, half away from zero.
// Absent metrics score 0.
func OverallScore(m *model.AnalysisMetrics) float64 {
	if m == nil {
		return 0
	}
	fillerComponent := math.Max(0, 10-float64(m.FillerWordCount))
	raw := 0.4*m.ClarityScore + 0.4*m.StructureScore + 0.2*fillerComponent
	return math.Round(raw*10) / 10
}

// Band maps an overall score to a display color band.
type Band string

const (
	BandGreen  Band = "green"
	BandYellow Band = "yellow"
	BandRed    Band = "red"
)

// ScoreBand returns the color band for an overall score.
func ScoreBand(score float64) Band {
	switch {
	case score >= 8:
		return BandGreen
	case score >= 6:
		return BandYellow
	default:
		return BandRed
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
