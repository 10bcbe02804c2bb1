package rageval_test

import (
	"testing"

	"ragbench/src/core/rageval"
)

func TestEstimateTokenCount(t *testing.T) {
	tests := []struct {
		name string
		text string
		want int
	}{
		{
			name: "empty",
			text: "",
			want: 0,
		},
		{
			name: "whitespace only",
			text: "   \n\t ",
			want: 0,
		},
		{
			name: "short words",
			text: "the cat sat",
			want: 3,
		},
		{
			name: "long word",
			text: "internationalization",
			want: 5,
		},
		{
			name: "number tokenizes per character",
			text: "12345",
			want: 5,
		},
		{
			name: "single punctuation",
			text: ".",
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rageval.EstimateTokenCount(tt.text)
			if got != tt.want {
				t.Errorf("EstimateTokenCount(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestTokenCounterIsMonotoneOnRepetition(t *testing.T) {
	counter := rageval.NewTokenCounter()

	short := counter.Count("one sentence about retrieval.")
	long := counter.Count("one sentence about retrieval. one sentence about retrieval. one sentence about retrieval.")

	if long <= short {
		t.Errorf("Count() long = %d, short = %d; repeated text should count more tokens", long, short)
	}
}
