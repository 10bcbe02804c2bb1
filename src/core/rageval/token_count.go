package rageval

import (
	"strings"
	"unicode"

	"github.com/pkoukk/tiktoken-go"
)

// TokenCounter counts tokens with the cl100k_base encoding when available and
// falls back to a character-based estimate when the encoding cannot be loaded
// (e.g. no network access to fetch the vocabulary).
type TokenCounter struct {
	enc *tiktoken.Tiktoken
}

func NewTokenCounter() *TokenCounter {
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return &TokenCounter{}
	}
	return &TokenCounter{enc: enc}
}

func (t *TokenCounter) Count(text string) int {
	if t.enc == nil {
		return EstimateTokenCount(text)
	}
	return len(t.enc.Encode(text, nil, nil))
}

// EstimateTokenCount provides a rough token count from character-based
// heuristics. It is intentionally approximate: chunk sizing only needs a
// stable, monotone length function, not exact tokenizer output.
func EstimateTokenCount(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	count := 0
	for _, word := range strings.Fields(text) {
		count += estimateWordTokens(word)
	}

	return count
}

func estimateWordTokens(word string) int {
	if len(word) == 1 && unicode.IsPunct(rune(word[0])) {
		return 1
	}

	if isNumber(word) {
		return len(word) // numeric characters tend to tokenize individually
	}

	length := len(word)
	if length <= 4 {
		return 1
	}
	return (length + 3) / 4 // roughly one token per 4 characters
}

func isNumber(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != ',' {
			return false
		}
	}
	return true
}
