package rageval

import "fmt"

// Document is the raw text extracted from one source unit (one PDF page, or
// one plain-text file), plus where it came from. Immutable once loaded.
type Document struct {
	Name    string `json:"name"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}

// Node is a chunk of a document's text, the atomic unit for embedding and for
// grounding generated questions.
type Node struct {
	ID           string `json:"id"`
	DocumentName string `json:"documentName"`
	Page         int    `json:"page"`
	Order        int    `json:"order"` // position within the full node sequence
	Content      string `json:"content"`
}

// Example is one evaluation unit: a generated question, the node text it was
// grounded in, and the generator's own reference answer.
type Example struct {
	NodeID           string `json:"nodeId"`
	Question         string `json:"question"`
	ReferenceContext string `json:"referenceContext"`
	ReferenceAnswer  string `json:"referenceAnswer"`
}

// Prediction is a query engine's actual output for an Example's question. The
// retrieved contexts may differ from the Example's original grounding context.
type Prediction struct {
	Answer   string   `json:"answer"`
	Contexts []string `json:"contexts"`
}

// Rubric is one scoring dimension.
type Rubric string

const (
	RubricCorrectness       Rubric = "correctness"        // 1..5
	RubricRelevancy         Rubric = "relevancy"          // {0,1}
	RubricFaithfulness      Rubric = "faithfulness"       // {0,1}
	RubricContextSimilarity Rubric = "context_similarity" // 0..1
)

// Rubrics lists all rubrics in reporting order.
var Rubrics = []Rubric{
	RubricCorrectness,
	RubricRelevancy,
	RubricFaithfulness,
	RubricContextSimilarity,
}

// ScoreRecord holds the judged scores for one (Example, Prediction) pair.
// A rubric missing from Scores was not judged successfully; the failure
// reason is kept in Failures under the same key.
type ScoreRecord struct {
	Example    Example           `json:"example"`
	Prediction Prediction        `json:"prediction"`
	Scores     map[Rubric]float64 `json:"scores"`
	Failures   map[Rubric]string  `json:"failures,omitempty"`
}

// ScoreSummary aggregates score records for one pipeline label. Means are
// computed only over examples with a valid score for that rubric.
type ScoreSummary struct {
	Label  string             `json:"label"`
	Means  map[Rubric]float64 `json:"means"`
	Counts map[Rubric]int     `json:"counts"`
}

// LoadError reports that the source directory was missing or held no readable
// file. It is fatal: nothing later in the pipeline can run without documents.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("failed to load documents from %s: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// EmbeddingError reports a failed embedding call. Index construction does not
// keep partial progress; a full rebuild is the recovery path.
type EmbeddingError struct {
	NodeID string
	Err    error
}

func (e *EmbeddingError) Error() string {
	return fmt.Sprintf("failed to embed node %s: %v", e.NodeID, e.Err)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

// GenerationError reports that a generation call failed or its response could
// not be parsed into the requested number of question/answer pairs. The
// affected node is skipped and the run continues.
type GenerationError struct {
	NodeID string
	Err    error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("failed to generate examples for node %s: %v", e.NodeID, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// JudgeError reports a failed scoring call. The affected rubric is left unset
// on the example's record and excluded from the mean.
type JudgeError struct {
	Rubric Rubric
	Err    error
}

func (e *JudgeError) Error() string {
	return fmt.Sprintf("judge call for %s failed: %v", e.Rubric, e.Err)
}

func (e *JudgeError) Unwrap() error { return e.Err }
