package rageval

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"text/template"

	"ragbench/src/log"
)

// Dataset is the output of dataset generation. Shortfall counts the examples
// that were requested but not produced because their node's generation call
// failed or returned an unparseable response.
type Dataset struct {
	Examples  []Example `json:"examples"`
	Shortfall int       `json:"shortfall"`
}

type generationPromptData struct {
	Context string
	Count   int
}

// LLMDatasetGenerator generates question/answer pairs per node with one
// generation call per node. Nodes whose responses cannot be parsed into the
// requested number of pairs are skipped; the run continues and the shortfall
// is surfaced on the returned dataset.
type LLMDatasetGenerator struct {
	llm        LLMProvider
	perNode    int
	promptTmpl *template.Template
}

func NewLLMDatasetGenerator(llm LLMProvider, questionsPerNode int) (*LLMDatasetGenerator, error) {
	tmpl, err := template.New("dataset").Parse(DatasetGenerationPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generation prompt template: %w", err)
	}

	return &LLMDatasetGenerator{
		llm:        llm,
		perNode:    questionsPerNode,
		promptTmpl: tmpl,
	}, nil
}

func (g *LLMDatasetGenerator) Generate(ctx context.Context, nodes []Node) (*Dataset, error) {
	dataset := &Dataset{}

	for _, node := range nodes {
		examples, err := g.generateForNode(ctx, node)
		if err != nil {
			genErr := &GenerationError{NodeID: node.ID, Err: err}
			log.Error(genErr, "skipping node", "node", node.ID)
			dataset.Shortfall += g.perNode
			continue
		}
		dataset.Examples = append(dataset.Examples, examples...)
	}

	if dataset.Shortfall > 0 {
		log.Info("dataset generation finished with shortfall",
			"examples", len(dataset.Examples),
			"shortfall", dataset.Shortfall)
	}

	return dataset, nil
}

func (g *LLMDatasetGenerator) generateForNode(ctx context.Context, node Node) ([]Example, error) {
	var prompt bytes.Buffer
	if err := g.promptTmpl.Execute(&prompt, generationPromptData{
		Context: node.Content,
		Count:   g.perNode,
	}); err != nil {
		return nil, fmt.Errorf("failed to execute prompt template: %w", err)
	}

	response, err := g.llm.Generate(ctx, DatasetGenerationSystemMessage, prompt.String())
	if err != nil {
		return nil, fmt.Errorf("generation call failed: %w", err)
	}

	pairs, err := ParseQAPairs(response)
	if err != nil {
		return nil, err
	}
	if len(pairs) != g.perNode {
		return nil, fmt.Errorf("expected %d question/answer pairs, parsed %d", g.perNode, len(pairs))
	}

	examples := make([]Example, 0, len(pairs))
	for _, pair := range pairs {
		examples = append(examples, Example{
			NodeID:           node.ID,
			Question:         pair.Question,
			ReferenceContext: node.Content,
			ReferenceAnswer:  pair.Answer,
		})
	}

	return examples, nil
}

// QAPair is one parsed question/answer pair from a generation response.
type QAPair struct {
	Question string
	Answer   string
}

// ParseQAPairs parses "Q:"/"A:" formatted pairs out of a model response.
// Answer text may span multiple lines; a new "Q:" line starts the next pair.
func ParseQAPairs(response string) ([]QAPair, error) {
	var (
		pairs    []QAPair
		current  *QAPair
		inAnswer bool
	)

	flush := func() error {
		if current == nil {
			return nil
		}
		current.Question = strings.TrimSpace(current.Question)
		current.Answer = strings.TrimSpace(current.Answer)
		if current.Question == "" || current.Answer == "" {
			return fmt.Errorf("incomplete question/answer pair near %q", current.Question)
		}
		pairs = append(pairs, *current)
		current = nil
		return nil
	}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "Q:"):
			if err := flush(); err != nil {
				return nil, err
			}
			current = &QAPair{Question: strings.TrimSpace(trimmed[2:])}
			inAnswer = false
		case strings.HasPrefix(trimmed, "A:"):
			if current == nil {
				return nil, fmt.Errorf("answer without a question: %q", trimmed)
			}
			current.Answer = strings.TrimSpace(trimmed[2:])
			inAnswer = true
		default:
			if current == nil || trimmed == "" {
				continue
			}
			if inAnswer {
				current.Answer += "\n" + trimmed
			} else {
				current.Question += " " + trimmed
			}
		}
	}

	if err := flush(); err != nil {
		return nil, err
	}

	if len(pairs) == 0 {
		return nil, fmt.Errorf("no question/answer pairs found in response")
	}

	return pairs, nil
}
