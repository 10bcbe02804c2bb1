package rageval_test

import (
	"context"
	"errors"
	"testing"

	"ragbench/src/core/rageval"
)

func TestIndexBuildAndRetrieve(t *testing.T) {
	nodes := []rageval.Node{
		{ID: "doc-p1-c0", DocumentName: "doc", Page: 1, Order: 0, Content: "about cats"},
		{ID: "doc-p1-c1", DocumentName: "doc", Page: 1, Order: 1, Content: "about dogs"},
		{ID: "doc-p2-c0", DocumentName: "doc", Page: 2, Order: 2, Content: "about birds"},
	}

	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"about cats":  {1, 0, 0},
			"about dogs":  {0, 1, 0},
			"about birds": {0, 0, 1},
			"dog query":   {0.1, 0.9, 0},
		},
	}

	index, err := rageval.NewIndexBuilder(embedder, rageval.NewMemoryVectorStore()).Build(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if index.Size() != 3 {
		t.Errorf("Size() = %d, want 3", index.Size())
	}

	got, err := index.Retrieve(context.Background(), "dog query", 2)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Retrieve() returned %d nodes, want 2", len(got))
	}
	if got[0].ID != "doc-p1-c1" {
		t.Errorf("nearest node = %q, want %q", got[0].ID, "doc-p1-c1")
	}
	if got[0].Content != "about dogs" || got[0].Page != 1 || got[0].Order != 1 {
		t.Errorf("node properties not restored: %+v", got[0])
	}
}

func TestIndexBuildAbortsOnEmbeddingFailure(t *testing.T) {
	nodes := []rageval.Node{
		{ID: "doc-p1-c0", Content: "fine"},
		{ID: "doc-p1-c1", Content: "poison"},
	}

	embedder := &failingEmbedder{failOn: "poison"}

	_, err := rageval.NewIndexBuilder(embedder, rageval.NewMemoryVectorStore()).Build(context.Background(), nodes)

	var embErr *rageval.EmbeddingError
	if !errors.As(err, &embErr) {
		t.Fatalf("Build() error = %v, want *EmbeddingError", err)
	}
	if embErr.NodeID != "doc-p1-c1" {
		t.Errorf("EmbeddingError node = %q, want %q", embErr.NodeID, "doc-p1-c1")
	}
}

// failingEmbedder fails on one specific input and embeds everything else to
// the same vector.
type failingEmbedder struct {
	failOn string
}

func (f *failingEmbedder) GetEmbedding(ctx context.Context, input string) ([]float32, error) {
	if input == f.failOn {
		return nil, errors.New("embedding backend down")
	}
	return []float32{1, 0}, nil
}
