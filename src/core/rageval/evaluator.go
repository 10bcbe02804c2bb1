package rageval

import (
	"context"
	"sync"

	"ragbench/src/log"
)

const DefaultBatchSize = 10

// Evaluator runs examples through a query engine and scores the predictions.
// At most batchSize example evaluations are in flight at once; results are
// written into pre-allocated per-example slots, so completion order does not
// matter and no two goroutines touch the same record.
type Evaluator struct {
	engine    *QueryEngine
	judge     Judge
	batchSize int
}

func NewEvaluator(engine *QueryEngine, judge Judge, batchSize int) *Evaluator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Evaluator{
		engine:    engine,
		judge:     judge,
		batchSize: batchSize,
	}
}

// Evaluate scores every example and aggregates the per-rubric means under the
// given pipeline label. A failed judge call leaves that rubric unset on the
// affected record and excluded from the mean; it never aborts the run. The
// progress callback, when non-nil, is invoked once per completed example.
func (e *Evaluator) Evaluate(ctx context.Context, label string, examples []Example, progress func()) ([]ScoreRecord, ScoreSummary, error) {
	records := make([]ScoreRecord, len(examples))

	var wg sync.WaitGroup
	sem := make(chan struct{}, e.batchSize)

	for i, example := range examples {
		wg.Add(1)
		sem <- struct{}{}
		go func(slot int, ex Example) {
			defer wg.Done()
			defer func() { <-sem }()

			records[slot] = e.evaluateOne(ctx, ex)
			if progress != nil {
				progress()
			}
		}(i, example)
	}

	wg.Wait()

	return records, Summarize(label, records), nil
}

func (e *Evaluator) evaluateOne(ctx context.Context, example Example) ScoreRecord {
	record := ScoreRecord{
		Example:  example,
		Scores:   make(map[Rubric]float64),
		Failures: make(map[Rubric]string),
	}

	prediction, err := e.engine.Query(ctx, example.Question)
	if err != nil {
		log.Error(err, "query engine failed", "node", example.NodeID)
		for _, rubric := range Rubrics {
			record.Failures[rubric] = err.Error()
		}
		return record
	}
	record.Prediction = *prediction

	e.applyScore(&record, RubricCorrectness, func() (float64, error) {
		return e.judge.Correctness(ctx, example.Question, example.ReferenceAnswer, prediction.Answer)
	})
	e.applyScore(&record, RubricRelevancy, func() (float64, error) {
		return e.judge.Relevancy(ctx, example.Question, prediction.Answer, prediction.Contexts)
	})
	e.applyScore(&record, RubricFaithfulness, func() (float64, error) {
		return e.judge.Faithfulness(ctx, prediction.Answer, prediction.Contexts)
	})
	e.applyScore(&record, RubricContextSimilarity, func() (float64, error) {
		return e.judge.ContextSimilarity(ctx, example.ReferenceContext, prediction.Contexts)
	})

	return record
}

func (e *Evaluator) applyScore(record *ScoreRecord, rubric Rubric, score func() (float64, error)) {
	value, err := score()
	if err != nil {
		log.Error(err, "rubric scoring failed", "rubric", rubric, "node", record.Example.NodeID)
		record.Failures[rubric] = err.Error()
		return
	}
	record.Scores[rubric] = value
}

// Summarize computes per-rubric means over the records that hold a valid
// score for that rubric.
func Summarize(label string, records []ScoreRecord) ScoreSummary {
	summary := ScoreSummary{
		Label:  label,
		Means:  make(map[Rubric]float64),
		Counts: make(map[Rubric]int),
	}

	totals := make(map[Rubric]float64)
	for _, record := range records {
		for rubric, score := range record.Scores {
			totals[rubric] += score
			summary.Counts[rubric]++
		}
	}

	for rubric, total := range totals {
		summary.Means[rubric] = total / float64(summary.Counts[rubric])
	}

	return summary
}
