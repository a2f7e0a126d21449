// Package export renders analyses into downloadable documents.
package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"masterspeak/internal/format"
	"masterspeak/internal/model"
)

// PDF renders an analysis report. The transcript section is emitted only
// when requested; the decision belongs to the caller's access policy.
func PDF(a *model.Analysis, includeTranscript bool) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Speech Analysis Report", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Speech Analysis Report", "", 1, "L", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, a.SpeechTitle, "", 1, "L", false, 0, "")
	doc.CellFormat(0, 8, a.CreatedAt.Format("Jan 2, 2006 15:04 MST"), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "Scores", "", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 12)
	if a.Metrics != nil {
		overall := format.OverallScore(a.Metrics)
		lines := []string{
			fmt.Sprintf("Overall: %.1f / 10 (%s)", overall, format.ScoreBand(overall)),
			fmt.Sprintf("Clarity: %.1f / 10", a.Metrics.ClarityScore),
			fmt.Sprintf("Structure: %.1f / 10", a.Metrics.StructureScore),
			fmt.Sprintf("Filler words: %d", a.Metrics.FillerWordCount),
			fmt.Sprintf("Word count: %d", a.Metrics.WordCount),
		}
		for _, line := range lines {
			doc.CellFormat(0, 7, line, "", 1, "L", false, 0, "")
		}
	} else {
		doc.CellFormat(0, 7, "No scores computed for this analysis.", "", 1, "L", false, 0, "")
	}
	doc.Ln(4)

	if a.Summary != "" {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, "Summary", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 12)
		doc.MultiCell(0, 6, a.Summary, "", "L", false)
		doc.Ln(4)
	}

	if a.Feedback != "" {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, "Feedback", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 12)
		doc.MultiCell(0, 6, a.Feedback, "", "L", false)
		doc.Ln(4)
	}

	if includeTranscript && a.Transcript != "" {
		doc.SetFont("Helvetica", "B", 14)
		doc.CellFormat(0, 10, "Transcript", "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 11)
		doc.MultiCell(0, 5, a.Transcript, "", "L", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
