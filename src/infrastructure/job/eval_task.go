package job

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"ragbench/src/core/rageval"
	"ragbench/src/log"
	"ragbench/src/storage/minioctrl"
	"ragbench/src/storage/postgres/recordctrl"
	"ragbench/src/storage/postgres/runctrl"
)

const TaskTypeEvaluation = "evaluation"

// EvaluationPayload is the queue message body for an evaluation run.
type EvaluationPayload struct {
	RunID  int64                   `json:"run_id"`
	Config rageval.PipelineConfig  `json:"config"`
}

// EvaluationTask runs a full pipeline for an enqueued run, persists the
// per-example records, and uploads the two artifacts to object storage.
type EvaluationTask struct {
	runService    *runctrl.RunService
	recordService *recordctrl.RecordService
	minioService  *minioctrl.MinioService
	loader        *rageval.Loader
	llm           rageval.LLMProvider
	judgeLLM      rageval.LLMProvider
	embedder      rageval.Embedder
}

func NewEvaluationTask(
	runService *runctrl.RunService,
	recordService *recordctrl.RecordService,
	minioService *minioctrl.MinioService,
	loader *rageval.Loader,
	llm rageval.LLMProvider,
	judgeLLM rageval.LLMProvider,
	embedder rageval.Embedder,
) *EvaluationTask {
	return &EvaluationTask{
		runService:    runService,
		recordService: recordService,
		minioService:  minioService,
		loader:        loader,
		llm:           llm,
		judgeLLM:      judgeLLM,
		embedder:      embedder,
	}
}

func (t *EvaluationTask) HandleEvaluationTask(ctx context.Context, payload json.RawMessage) error {
	var evalPayload EvaluationPayload
	if err := json.Unmarshal(payload, &evalPayload); err != nil {
		return fmt.Errorf("failed to unmarshal evaluation payload: %w", err)
	}

	run, err := t.runService.GetByID(ctx, evalPayload.RunID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}
	if run == nil {
		return fmt.Errorf("run not found: %d", evalPayload.RunID)
	}

	if err := t.runService.UpdateStatus(ctx, run.ID, runctrl.RunStatusRunning, nil); err != nil {
		return fmt.Errorf("failed to update run status: %w", err)
	}

	report, err := t.execute(ctx, run.ID, evalPayload.Config)
	if err != nil {
		errStr := err.Error()
		if updateErr := t.runService.UpdateStatus(ctx, run.ID, runctrl.RunStatusFailed, &errStr); updateErr != nil {
			log.Error(updateErr, "failed to mark run as failed", "run_id", run.ID)
		}
		return fmt.Errorf("evaluation run %d failed: %w", run.ID, err)
	}

	summaryJSON, err := json.Marshal(report.Summaries)
	if err != nil {
		return fmt.Errorf("failed to marshal summaries: %w", err)
	}

	if err := t.runService.Complete(ctx, run.ID,
		report.DocumentCount, report.NodeCount, report.ExampleCount, report.Shortfall,
		string(summaryJSON)); err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}

	return nil
}

func (t *EvaluationTask) execute(ctx context.Context, runID int64, cfg rageval.PipelineConfig) (*rageval.RunReport, error) {
	// Each run gets a fresh in-memory store; nothing leaks across runs.
	pipeline := rageval.NewPipeline(t.loader, t.llm, t.judgeLLM, t.embedder, rageval.NewMemoryVectorStore())

	report, err := pipeline.Run(ctx, cfg, nil)
	if err != nil {
		return nil, err
	}

	if err := t.persistRecords(ctx, runID, report); err != nil {
		return nil, err
	}

	if err := t.uploadArtifacts(ctx, runID, report); err != nil {
		return nil, err
	}

	return report, nil
}

func (t *EvaluationTask) persistRecords(ctx context.Context, runID int64, report *rageval.RunReport) error {
	var rows []recordctrl.Record
	for label, records := range report.Records {
		for _, record := range records {
			scoresJSON, err := json.Marshal(record.Scores)
			if err != nil {
				return fmt.Errorf("failed to marshal scores: %w", err)
			}
			failuresJSON, err := json.Marshal(record.Failures)
			if err != nil {
				return fmt.Errorf("failed to marshal failures: %w", err)
			}

			rows = append(rows, recordctrl.Record{
				RunID:           runID,
				Label:           label,
				NodeID:          record.Example.NodeID,
				Question:        record.Example.Question,
				ReferenceAnswer: record.Example.ReferenceAnswer,
				PredictedAnswer: record.Prediction.Answer,
				ScoresJSON:      string(scoresJSON),
				FailuresJSON:    string(failuresJSON),
			})
		}
	}

	if err := t.recordService.CreateBatch(ctx, rows); err != nil {
		return fmt.Errorf("failed to persist records: %w", err)
	}

	return nil
}

func (t *EvaluationTask) uploadArtifacts(ctx context.Context, runID int64, report *rageval.RunReport) error {
	if t.minioService == nil {
		return nil
	}

	if err := t.minioService.EnsureBucketExists(ctx, minioctrl.ArtifactsBucket); err != nil {
		return fmt.Errorf("failed to ensure artifacts bucket: %w", err)
	}

	var summaryBuf bytes.Buffer
	if err := rageval.WriteSummary(&summaryBuf, report.Summaries); err != nil {
		return err
	}
	if err := t.minioService.UploadArtifact(ctx, runID, "score_summary.csv", "text/csv", summaryBuf.Bytes()); err != nil {
		return err
	}

	for label, records := range report.Records {
		var recordsBuf bytes.Buffer
		if err := rageval.WriteRecords(&recordsBuf, label, records); err != nil {
			return err
		}
		name := fmt.Sprintf("records_%s.json", label)
		if err := t.minioService.UploadArtifact(ctx, runID, name, "application/json", recordsBuf.Bytes()); err != nil {
			return err
		}
	}

	return nil
}
