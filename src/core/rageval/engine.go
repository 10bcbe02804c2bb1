package rageval

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"
)

type answerPromptData struct {
	Context  string
	Question string
}

// QueryEngine answers a question by retrieving the top-k nodes and asking the
// LLM to answer from those contexts only.
type QueryEngine struct {
	retriever  Retriever
	llm        LLMProvider
	topK       int
	promptTmpl *template.Template
}

func NewQueryEngine(retriever Retriever, llm LLMProvider, topK int) (*QueryEngine, error) {
	tmpl, err := template.New("answer").Parse(AnswerPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse answer prompt template: %w", err)
	}

	return &QueryEngine{
		retriever:  retriever,
		llm:        llm,
		topK:       topK,
		promptTmpl: tmpl,
	}, nil
}

// Query runs retrieval plus answer synthesis and returns the answer together
// with the contexts it was synthesized from.
func (e *QueryEngine) Query(ctx context.Context, question string) (*Prediction, error) {
	nodes, err := e.retriever.Retrieve(ctx, question, e.topK)
	if err != nil {
		return nil, fmt.Errorf("retrieval failed: %w", err)
	}

	contexts := make([]string, 0, len(nodes))
	for _, node := range nodes {
		contexts = append(contexts, node.Content)
	}

	var prompt bytes.Buffer
	if err := e.promptTmpl.Execute(&prompt, answerPromptData{
		Context:  strings.Join(contexts, "\n\n"),
		Question: question,
	}); err != nil {
		return nil, fmt.Errorf("failed to execute answer prompt template: %w", err)
	}

	answer, err := e.llm.Generate(ctx, AnswerSystemMessage, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("answer synthesis failed: %w", err)
	}

	return &Prediction{
		Answer:   strings.TrimSpace(answer),
		Contexts: contexts,
	}, nil
}
