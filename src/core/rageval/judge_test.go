package rageval_test

import (
	"context"
	"math"
	"testing"

	"ragbench/src/core/rageval"
)

// fakeEmbedder returns a fixed vector per input string.
type fakeEmbedder struct {
	vectors map[string][]float32
}

func (f *fakeEmbedder) GetEmbedding(ctx context.Context, input string) ([]float32, error) {
	return f.vectors[input], nil
}

func TestParseScoreLine(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
		wantErr  bool
	}{
		{
			name:     "plain score",
			response: "SCORE: 4",
			want:     4,
		},
		{
			name:     "score with reasoning above",
			response: "The answer covers the key facts.\nSCORE: 3.5",
			want:     3.5,
		},
		{
			name:     "lowercase prefix",
			response: "score: 5",
			want:     5,
		},
		{
			name:     "no score line",
			response: "I think the answer is good.",
			wantErr:  true,
		},
		{
			name:     "unparseable number",
			response: "SCORE: four",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rageval.ParseScoreLine(tt.response)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseScoreLine() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseScoreLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseVerdictLine(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     float64
		wantErr  bool
	}{
		{
			name:     "yes",
			response: "VERDICT: YES",
			want:     1,
		},
		{
			name:     "no",
			response: "VERDICT: NO",
			want:     0,
		},
		{
			name:     "mixed case with reasoning",
			response: "The answer addresses the question directly.\nVerdict: yes",
			want:     1,
		},
		{
			name:     "no verdict line",
			response: "Probably fine.",
			wantErr:  true,
		},
		{
			name:     "unparseable verdict",
			response: "VERDICT: MAYBE",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := rageval.ParseVerdictLine(tt.response)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseVerdictLine() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseVerdictLine() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCorrectnessRejectsOutOfRangeScore(t *testing.T) {
	llm := &fakeLLM{
		generate: func(ctx context.Context, system, prompt string) (string, error) {
			return "SCORE: 7", nil
		},
	}

	judge, err := rageval.NewLLMJudge(llm, &fakeEmbedder{})
	if err != nil {
		t.Fatalf("NewLLMJudge() error = %v", err)
	}

	_, err = judge.Correctness(context.Background(), "q", "ref", "cand")
	if err == nil {
		t.Error("Correctness() accepted score 7, want error")
	}
}

func TestContextSimilarity(t *testing.T) {
	embedder := &fakeEmbedder{
		vectors: map[string][]float32{
			"reference": {1, 0},
			"same":      {1, 0},
			"opposite":  {-1, 0},
		},
	}

	judge, err := rageval.NewLLMJudge(&fakeLLM{}, embedder)
	if err != nil {
		t.Fatalf("NewLLMJudge() error = %v", err)
	}

	tests := []struct {
		name      string
		reference string
		contexts  []string
		want      float64
	}{
		{
			name:      "identical vectors",
			reference: "reference",
			contexts:  []string{"same"},
			want:      1,
		},
		{
			name:      "opposite vectors clamp to zero",
			reference: "reference",
			contexts:  []string{"opposite"},
			want:      0,
		},
		{
			name:      "no contexts",
			reference: "reference",
			contexts:  nil,
			want:      0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := judge.ContextSimilarity(context.Background(), tt.reference, tt.contexts)
			if err != nil {
				t.Fatalf("ContextSimilarity() error = %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("ContextSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
