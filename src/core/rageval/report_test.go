package rageval_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"ragbench/src/core/rageval"
)

func TestWriteSummary(t *testing.T) {
	summaries := []rageval.ScoreSummary{
		{
			Label: "base_rag",
			Means: map[rageval.Rubric]float64{
				rageval.RubricCorrectness:       4,
				rageval.RubricRelevancy:         1,
				rageval.RubricFaithfulness:      0.5,
				rageval.RubricContextSimilarity: 0.75,
			},
			Counts: map[rageval.Rubric]int{
				rageval.RubricCorrectness:       2,
				rageval.RubricRelevancy:         2,
				rageval.RubricFaithfulness:      2,
				rageval.RubricContextSimilarity: 2,
			},
		},
		{
			Label: "base_rag_bm25",
			Means: map[rageval.Rubric]float64{
				rageval.RubricCorrectness: 3.5,
			},
			Counts: map[rageval.Rubric]int{
				rageval.RubricCorrectness: 2,
			},
		},
	}

	var buf bytes.Buffer
	if err := rageval.WriteSummary(&buf, summaries); err != nil {
		t.Fatalf("WriteSummary() error = %v", err)
	}

	want := "metric,base_rag,base_rag_bm25\n" +
		"mean_correctness_score,4.000000,3.500000\n" +
		"mean_relevancy_score,1.000000,\n" +
		"mean_faithfulness_score,0.500000,\n" +
		"mean_context_similarity_score,0.750000,\n"
	if got := buf.String(); got != want {
		t.Errorf("WriteSummary() output:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteRecords(t *testing.T) {
	records := []rageval.ScoreRecord{
		{
			Example:    rageval.Example{NodeID: "n0", Question: "q0"},
			Prediction: rageval.Prediction{Answer: "a0", Contexts: []string{"c0"}},
			Scores: map[rageval.Rubric]float64{
				rageval.RubricCorrectness: 5,
			},
		},
	}

	var buf bytes.Buffer
	if err := rageval.WriteRecords(&buf, "base_rag", records); err != nil {
		t.Fatalf("WriteRecords() error = %v", err)
	}

	var dump rageval.RecordDump
	if err := json.Unmarshal(buf.Bytes(), &dump); err != nil {
		t.Fatalf("WriteRecords() produced invalid JSON: %v", err)
	}
	if dump.Label != "base_rag" {
		t.Errorf("dump label = %q, want %q", dump.Label, "base_rag")
	}
	if len(dump.Records) != 1 {
		t.Fatalf("dump holds %d records, want 1", len(dump.Records))
	}
	if dump.Records[0].Example.NodeID != "n0" {
		t.Errorf("dump record NodeID = %q, want %q", dump.Records[0].Example.NodeID, "n0")
	}
	if dump.Records[0].Scores[rageval.RubricCorrectness] != 5 {
		t.Errorf("dump record correctness = %v, want 5", dump.Records[0].Scores[rageval.RubricCorrectness])
	}
}
