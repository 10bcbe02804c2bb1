package rageval

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
)

// rubricRowNames maps rubrics to the row labels used in the score summary.
var rubricRowNames = map[Rubric]string{
	RubricCorrectness:       "mean_correctness_score",
	RubricRelevancy:         "mean_relevancy_score",
	RubricFaithfulness:      "mean_faithfulness_score",
	RubricContextSimilarity: "mean_context_similarity_score",
}

// WriteSummary writes the score table as CSV: one row per rubric, one column
// per pipeline label. Rubrics with no valid score in a column are left empty.
func WriteSummary(w io.Writer, summaries []ScoreSummary) error {
	cw := csv.NewWriter(w)

	header := []string{"metric"}
	for _, summary := range summaries {
		header = append(header, summary.Label)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write summary header: %w", err)
	}

	for _, rubric := range Rubrics {
		row := []string{rubricRowNames[rubric]}
		for _, summary := range summaries {
			if summary.Counts[rubric] == 0 {
				row = append(row, "")
				continue
			}
			row = append(row, strconv.FormatFloat(summary.Means[rubric], 'f', 6, 64))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write summary row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// RecordDump is the raw per-example artifact written after a run.
type RecordDump struct {
	Label   string        `json:"label"`
	Records []ScoreRecord `json:"records"`
}

// WriteRecords writes the full per-example records as indented JSON.
func WriteRecords(w io.Writer, label string, records []ScoreRecord) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(RecordDump{Label: label, Records: records}); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}
