package rageval

import (
	"context"
)

// LLMProvider defines operations for language model text generation. The
// backing model and sampling parameters are bound at construction time.
type LLMProvider interface {
	// Generate generates a text completion for the given system/user prompt
	Generate(ctx context.Context, system string, prompt string) (string, error)
}

// Embedder defines operations for text embedding.
type Embedder interface {
	// GetEmbedding generates an embedding vector for the given input text
	GetEmbedding(ctx context.Context, input string) ([]float32, error)
}

// VectorObject is a single stored unit: a node's vector plus its properties.
type VectorObject struct {
	ID         string
	Vector     []float32
	Properties map[string]interface{}
}

// VectorMatch is a single nearest-neighbor result.
type VectorMatch struct {
	ID         string
	Distance   float64
	Properties map[string]interface{}
}

// VectorStore defines operations for vector storage and nearest-neighbor
// search. Implementations must return matches in non-decreasing distance
// order, breaking ties by insertion order.
type VectorStore interface {
	Add(ctx context.Context, objects []VectorObject) error
	Query(ctx context.Context, vector []float32, k int) ([]VectorMatch, error)
}

// Retriever returns the nodes most relevant to a query string. Both the
// embedding index and the keyword search backend satisfy this.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) ([]Node, error)
}

// DatasetGenerator produces synthetic evaluation examples from nodes.
type DatasetGenerator interface {
	Generate(ctx context.Context, nodes []Node) (*Dataset, error)
}

// Judge scores a prediction against an example on the four rubrics.
type Judge interface {
	// Correctness rates the candidate answer against the reference on a
	// 1..5 scale
	Correctness(ctx context.Context, question, reference, candidate string) (float64, error)
	// Relevancy judges whether the answer addresses the question given the
	// retrieved contexts; pass/fail mapped to {0,1}
	Relevancy(ctx context.Context, question, answer string, contexts []string) (float64, error)
	// Faithfulness judges whether the answer is supported by the retrieved
	// contexts; pass/fail mapped to {0,1}
	Faithfulness(ctx context.Context, answer string, contexts []string) (float64, error)
	// ContextSimilarity measures embedding similarity between the reference
	// context and the retrieved contexts, in 0..1
	ContextSimilarity(ctx context.Context, referenceContext string, contexts []string) (float64, error)
}
