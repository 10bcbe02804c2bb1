package rageval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ragbench/src/core/rageval"
)

// fakeRetriever returns a fixed node list regardless of the query.
type fakeRetriever struct {
	nodes []rageval.Node
	err   error
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) ([]rageval.Node, error) {
	if f.err != nil {
		return nil, f.err
	}
	if k > len(f.nodes) {
		k = len(f.nodes)
	}
	return f.nodes[:k], nil
}

func TestQueryEngine(t *testing.T) {
	retriever := &fakeRetriever{
		nodes: []rageval.Node{
			{ID: "n0", Content: "first context"},
			{ID: "n1", Content: "second context"},
			{ID: "n2", Content: "third context"},
		},
	}

	var seenPrompt string
	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			seenPrompt = prompt
			return "  an answer with padding  ", nil
		},
	}

	engine, err := rageval.NewQueryEngine(retriever, llm, 2)
	if err != nil {
		t.Fatalf("NewQueryEngine() error = %v", err)
	}

	prediction, err := engine.Query(context.Background(), "what happened?")
	if err != nil {
		t.Fatalf("Query() error = %v", err)
	}

	if prediction.Answer != "an answer with padding" {
		t.Errorf("Query() answer = %q, want trimmed answer", prediction.Answer)
	}
	if len(prediction.Contexts) != 2 {
		t.Fatalf("Query() returned %d contexts, want 2 (top-k)", len(prediction.Contexts))
	}
	if prediction.Contexts[0] != "first context" || prediction.Contexts[1] != "second context" {
		t.Errorf("Query() contexts = %v, want retrieval order preserved", prediction.Contexts)
	}

	if !strings.Contains(seenPrompt, "first context") || !strings.Contains(seenPrompt, "what happened?") {
		t.Errorf("answer prompt missing context or question: %q", seenPrompt)
	}
}

func TestQueryEngineRetrievalFailure(t *testing.T) {
	retriever := &fakeRetriever{err: errors.New("store down")}
	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			t.Error("Generate() called despite retrieval failure")
			return "", nil
		},
	}

	engine, err := rageval.NewQueryEngine(retriever, llm, 3)
	if err != nil {
		t.Fatalf("NewQueryEngine() error = %v", err)
	}

	if _, err := engine.Query(context.Background(), "q"); err == nil {
		t.Error("Query() error = nil, want retrieval error")
	}
}
