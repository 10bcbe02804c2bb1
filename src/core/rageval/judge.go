package rageval

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"text/template"
)

// LLMJudge scores predictions with judge-LLM calls for correctness, relevancy
// and faithfulness, and with embedding similarity for context similarity.
type LLMJudge struct {
	llm      LLMProvider
	embedder Embedder

	correctnessTmpl  *template.Template
	relevancyTmpl    *template.Template
	faithfulnessTmpl *template.Template
}

func NewLLMJudge(llm LLMProvider, embedder Embedder) (*LLMJudge, error) {
	correctnessTmpl, err := template.New("correctness").Parse(CorrectnessPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse correctness template: %w", err)
	}
	relevancyTmpl, err := template.New("relevancy").Parse(RelevancyPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse relevancy template: %w", err)
	}
	faithfulnessTmpl, err := template.New("faithfulness").Parse(FaithfulnessPromptTmpl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse faithfulness template: %w", err)
	}

	return &LLMJudge{
		llm:              llm,
		embedder:         embedder,
		correctnessTmpl:  correctnessTmpl,
		relevancyTmpl:    relevancyTmpl,
		faithfulnessTmpl: faithfulnessTmpl,
	}, nil
}

type correctnessPromptData struct {
	Question  string
	Reference string
	Candidate string
}

func (j *LLMJudge) Correctness(ctx context.Context, question, reference, candidate string) (float64, error) {
	var prompt bytes.Buffer
	if err := j.correctnessTmpl.Execute(&prompt, correctnessPromptData{
		Question:  question,
		Reference: reference,
		Candidate: candidate,
	}); err != nil {
		return 0, &JudgeError{Rubric: RubricCorrectness, Err: err}
	}

	response, err := j.llm.Generate(ctx, CorrectnessSystemMessage, prompt.String())
	if err != nil {
		return 0, &JudgeError{Rubric: RubricCorrectness, Err: err}
	}

	score, err := ParseScoreLine(response)
	if err != nil {
		return 0, &JudgeError{Rubric: RubricCorrectness, Err: err}
	}
	if score < 1 || score > 5 {
		return 0, &JudgeError{Rubric: RubricCorrectness, Err: fmt.Errorf("score %v out of range 1..5", score)}
	}

	return score, nil
}

type verdictPromptData struct {
	Question string
	Context  string
	Answer   string
}

func (j *LLMJudge) Relevancy(ctx context.Context, question, answer string, contexts []string) (float64, error) {
	var prompt bytes.Buffer
	if err := j.relevancyTmpl.Execute(&prompt, verdictPromptData{
		Question: question,
		Context:  strings.Join(contexts, "\n\n"),
		Answer:   answer,
	}); err != nil {
		return 0, &JudgeError{Rubric: RubricRelevancy, Err: err}
	}

	response, err := j.llm.Generate(ctx, RelevancySystemMessage, prompt.String())
	if err != nil {
		return 0, &JudgeError{Rubric: RubricRelevancy, Err: err}
	}

	pass, err := ParseVerdictLine(response)
	if err != nil {
		return 0, &JudgeError{Rubric: RubricRelevancy, Err: err}
	}

	return pass, nil
}

func (j *LLMJudge) Faithfulness(ctx context.Context, answer string, contexts []string) (float64, error) {
	var prompt bytes.Buffer
	if err := j.faithfulnessTmpl.Execute(&prompt, verdictPromptData{
		Context: strings.Join(contexts, "\n\n"),
		Answer:  answer,
	}); err != nil {
		return 0, &JudgeError{Rubric: RubricFaithfulness, Err: err}
	}

	response, err := j.llm.Generate(ctx, FaithfulnessSystemMessage, prompt.String())
	if err != nil {
		return 0, &JudgeError{Rubric: RubricFaithfulness, Err: err}
	}

	pass, err := ParseVerdictLine(response)
	if err != nil {
		return 0, &JudgeError{Rubric: RubricFaithfulness, Err: err}
	}

	return pass, nil
}

func (j *LLMJudge) ContextSimilarity(ctx context.Context, referenceContext string, contexts []string) (float64, error) {
	if len(contexts) == 0 {
		return 0, nil
	}

	refVector, err := j.embedder.GetEmbedding(ctx, referenceContext)
	if err != nil {
		return 0, &JudgeError{Rubric: RubricContextSimilarity, Err: err}
	}

	retrievedVector, err := j.embedder.GetEmbedding(ctx, strings.Join(contexts, "\n\n"))
	if err != nil {
		return 0, &JudgeError{Rubric: RubricContextSimilarity, Err: err}
	}

	similarity := CosineSimilarity(refVector, retrievedVector)
	if similarity < 0 {
		similarity = 0
	}

	return similarity, nil
}

// ParseScoreLine extracts the numeric score from a "SCORE: <number>" line
// anywhere in a judge response.
func ParseScoreLine(response string) (float64, error) {
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(strings.ToUpper(trimmed), "SCORE:") {
			continue
		}
		raw := strings.TrimSpace(trimmed[len("SCORE:"):])
		score, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return 0, fmt.Errorf("unparseable score %q", raw)
		}
		return score, nil
	}

	return 0, fmt.Errorf("no score line in response")
}

// ParseVerdictLine extracts a YES/NO verdict and maps it to 1/0.
func ParseVerdictLine(response string) (float64, error) {
	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.ToUpper(strings.TrimSpace(line))
		if !strings.HasPrefix(trimmed, "VERDICT:") {
			continue
		}
		raw := strings.TrimSpace(trimmed[len("VERDICT:"):])
		switch raw {
		case "YES":
			return 1, nil
		case "NO":
			return 0, nil
		default:
			return 0, fmt.Errorf("unparseable verdict %q", raw)
		}
	}

	return 0, fmt.Errorf("no verdict line in response")
}
