package rageval_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"ragbench/src/core/rageval"
)

// fakeJudge returns scripted scores. Questions listed in failFaithfulness
// get a faithfulness error instead of a score.
type fakeJudge struct {
	correctness      float64
	relevancy        float64
	faithfulness     float64
	similarity       float64
	failFaithfulness map[string]bool

	mu       sync.Mutex
	lastSeen string
}

func (f *fakeJudge) Correctness(ctx context.Context, question, reference, candidate string) (float64, error) {
	f.mu.Lock()
	f.lastSeen = question
	f.mu.Unlock()
	return f.correctness, nil
}

func (f *fakeJudge) Relevancy(ctx context.Context, question, answer string, contexts []string) (float64, error) {
	return f.relevancy, nil
}

func (f *fakeJudge) Faithfulness(ctx context.Context, answer string, contexts []string) (float64, error) {
	if f.failFaithfulness != nil && f.failFaithfulness[answer] {
		return 0, errors.New("judge call failed")
	}
	return f.faithfulness, nil
}

func (f *fakeJudge) ContextSimilarity(ctx context.Context, referenceContext string, contexts []string) (float64, error) {
	return f.similarity, nil
}

func newTestEngine(t *testing.T) *rageval.QueryEngine {
	t.Helper()

	retriever := &fakeRetriever{
		nodes: []rageval.Node{{ID: "n0", Content: "context"}},
	}
	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			// Echo the question back so records stay distinguishable.
			for _, line := range strings.Split(prompt, "\n") {
				if strings.HasPrefix(line, "Question:") {
					return "answer to" + strings.TrimPrefix(line, "Question:"), nil
				}
			}
			return "answer", nil
		},
	}

	engine, err := rageval.NewQueryEngine(retriever, llm, 1)
	if err != nil {
		t.Fatalf("NewQueryEngine() error = %v", err)
	}
	return engine
}

func TestEvaluateKeepsRecordsAlignedWithExamples(t *testing.T) {
	examples := make([]rageval.Example, 25)
	for i := range examples {
		examples[i] = rageval.Example{
			NodeID:   fmt.Sprintf("node-%d", i),
			Question: fmt.Sprintf("question %d", i),
		}
	}

	judge := &fakeJudge{correctness: 4, relevancy: 1, faithfulness: 1, similarity: 0.5}
	evaluator := rageval.NewEvaluator(newTestEngine(t), judge, 5)

	var progressed int64
	records, summary, err := evaluator.Evaluate(context.Background(), "base_rag", examples, func() {
		atomic.AddInt64(&progressed, 1)
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	if len(records) != len(examples) {
		t.Fatalf("Evaluate() returned %d records, want %d", len(records), len(examples))
	}
	for i, record := range records {
		if record.Example.NodeID != examples[i].NodeID {
			t.Errorf("record %d holds example %q, want %q", i, record.Example.NodeID, examples[i].NodeID)
		}
		wantAnswer := "answer to " + examples[i].Question
		if record.Prediction.Answer != wantAnswer {
			t.Errorf("record %d answer = %q, want %q", i, record.Prediction.Answer, wantAnswer)
		}
	}

	if progressed != int64(len(examples)) {
		t.Errorf("progress callback invoked %d times, want %d", progressed, len(examples))
	}
	if summary.Label != "base_rag" {
		t.Errorf("summary label = %q, want %q", summary.Label, "base_rag")
	}
	if got := summary.Means[rageval.RubricCorrectness]; got != 4 {
		t.Errorf("mean correctness = %v, want 4", got)
	}
}

func TestEvaluateExcludesFailedRubricsFromMeans(t *testing.T) {
	examples := []rageval.Example{
		{NodeID: "n0", Question: "first"},
		{NodeID: "n1", Question: "second"},
	}

	judge := &fakeJudge{
		correctness:  3,
		relevancy:    1,
		faithfulness: 1,
		similarity:   0.8,
		failFaithfulness: map[string]bool{
			"answer to first": true,
		},
	}
	evaluator := rageval.NewEvaluator(newTestEngine(t), judge, 0)

	records, summary, err := evaluator.Evaluate(context.Background(), "base_rag", examples, nil)
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}

	var failed *rageval.ScoreRecord
	for i := range records {
		if records[i].Example.NodeID == "n0" {
			failed = &records[i]
		}
	}
	if failed == nil {
		t.Fatal("record for n0 missing")
	}
	if _, ok := failed.Scores[rageval.RubricFaithfulness]; ok {
		t.Error("failed rubric still holds a score")
	}
	if failed.Failures[rageval.RubricFaithfulness] == "" {
		t.Error("failed rubric missing failure reason")
	}
	if _, ok := failed.Scores[rageval.RubricCorrectness]; !ok {
		t.Error("unrelated rubric dropped from failed record")
	}

	if got := summary.Counts[rageval.RubricFaithfulness]; got != 1 {
		t.Errorf("faithfulness count = %d, want 1", got)
	}
	if got := summary.Means[rageval.RubricFaithfulness]; math.Abs(got-1) > 1e-9 {
		t.Errorf("faithfulness mean = %v, want 1 (failed example excluded)", got)
	}
	if got := summary.Counts[rageval.RubricCorrectness]; got != 2 {
		t.Errorf("correctness count = %d, want 2", got)
	}
}

func TestSummarize(t *testing.T) {
	records := []rageval.ScoreRecord{
		{
			Scores: map[rageval.Rubric]float64{
				rageval.RubricCorrectness: 5,
				rageval.RubricRelevancy:   1,
			},
		},
		{
			Scores: map[rageval.Rubric]float64{
				rageval.RubricCorrectness: 3,
			},
			Failures: map[rageval.Rubric]string{
				rageval.RubricRelevancy: "judge call failed",
			},
		},
	}

	summary := rageval.Summarize("label", records)

	if got := summary.Means[rageval.RubricCorrectness]; got != 4 {
		t.Errorf("correctness mean = %v, want 4", got)
	}
	if got := summary.Means[rageval.RubricRelevancy]; got != 1 {
		t.Errorf("relevancy mean = %v, want 1", got)
	}
	if got := summary.Counts[rageval.RubricFaithfulness]; got != 0 {
		t.Errorf("faithfulness count = %d, want 0", got)
	}
	if _, ok := summary.Means[rageval.RubricFaithfulness]; ok {
		t.Error("unscored rubric has a mean")
	}
}
