package rageval_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ragbench/src/core/rageval"
)

// fakeLLM routes every Generate call through a single function. Tests swap
// the function to script responses or failures.
type fakeLLM struct {
	generate func(ctx context.Context, system, prompt string) (string, error)
}

func (f *fakeLLM) Generate(ctx context.Context, system, prompt string) (string, error) {
	return f.generate(ctx, system, prompt)
}

func TestParseQAPairs(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []rageval.QAPair
		wantErr  bool
	}{
		{
			name:     "single pair",
			response: "Q: What is the capital of France?\nA: Paris.",
			want: []rageval.QAPair{
				{Question: "What is the capital of France?", Answer: "Paris."},
			},
			wantErr: false,
		},
		{
			name:     "two pairs",
			response: "Q: First question?\nA: First answer.\nQ: Second question?\nA: Second answer.",
			want: []rageval.QAPair{
				{Question: "First question?", Answer: "First answer."},
				{Question: "Second question?", Answer: "Second answer."},
			},
			wantErr: false,
		},
		{
			name:     "multi-line answer",
			response: "Q: Why?\nA: Because of two things:\nthe first thing\nthe second thing",
			want: []rageval.QAPair{
				{Question: "Why?", Answer: "Because of two things:\nthe first thing\nthe second thing"},
			},
			wantErr: false,
		},
		{
			name:     "chatter before the first pair is ignored",
			response: "Sure, here are the pairs:\n\nQ: A question?\nA: An answer.\n",
			want: []rageval.QAPair{
				{Question: "A question?", Answer: "An answer."},
			},
			wantErr: false,
		},
		{
			name:     "question without answer",
			response: "Q: Lonely question?\nQ: Another?\nA: Answered.",
			wantErr:  true,
		},
		{
			name:     "answer without question",
			response: "A: Orphaned answer.",
			wantErr:  true,
		},
		{
			name:     "no pairs at all",
			response: "The model refused to answer.",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rageval.ParseQAPairs(tt.response)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseQAPairs() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			if len(got) != len(tt.want) {
				t.Fatalf("ParseQAPairs() returned %d pairs, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseQAPairs() pair %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestGenerateSkipsFailedNodes(t *testing.T) {
	nodes := []rageval.Node{
		{ID: "doc-p1-c0", Content: "good content"},
		{ID: "doc-p1-c1", Content: "bad content"},
	}

	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			if strings.Contains(prompt, "bad content") {
				return "", errors.New("model unavailable")
			}
			return "Q: One?\nA: Answer one.\nQ: Two?\nA: Answer two.", nil
		},
	}

	generator, err := rageval.NewLLMDatasetGenerator(llm, 2)
	if err != nil {
		t.Fatalf("NewLLMDatasetGenerator() error = %v", err)
	}

	dataset, err := generator.Generate(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(dataset.Examples) != 2 {
		t.Errorf("Generate() produced %d examples, want 2", len(dataset.Examples))
	}
	if dataset.Shortfall != 2 {
		t.Errorf("Generate() shortfall = %d, want 2", dataset.Shortfall)
	}
	for _, example := range dataset.Examples {
		if example.NodeID != "doc-p1-c0" {
			t.Errorf("example NodeID = %q, want %q", example.NodeID, "doc-p1-c0")
		}
		if example.ReferenceContext != "good content" {
			t.Errorf("example ReferenceContext = %q, want %q", example.ReferenceContext, "good content")
		}
	}
}

func TestGenerateRejectsWrongPairCount(t *testing.T) {
	nodes := []rageval.Node{{ID: "doc-p1-c0", Content: "content"}}

	// The model returns one pair where two were requested.
	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			return "Q: Only one?\nA: Yes.", nil
		},
	}

	generator, err := rageval.NewLLMDatasetGenerator(llm, 2)
	if err != nil {
		t.Fatalf("NewLLMDatasetGenerator() error = %v", err)
	}

	dataset, err := generator.Generate(context.Background(), nodes)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(dataset.Examples) != 0 {
		t.Errorf("Generate() produced %d examples, want 0", len(dataset.Examples))
	}
	if dataset.Shortfall != 2 {
		t.Errorf("Generate() shortfall = %d, want 2", dataset.Shortfall)
	}
}
