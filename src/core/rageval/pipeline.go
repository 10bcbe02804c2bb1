package rageval

import (
	"context"
	"fmt"

	"ragbench/src/log"
)

// PipelineConfig carries every knob for one pipeline run. Nothing is read
// from globals; a config plus a Pipeline fully determines a run.
type PipelineConfig struct {
	DocsDir          string `json:"docsDir"`
	Label            string `json:"label"`
	ChunkSize        int    `json:"chunkSize"`
	ChunkOverlap     int    `json:"chunkOverlap"`
	QuestionsPerNode int    `json:"questionsPerNode"`
	TopK             int    `json:"topK"`
	BatchSize        int    `json:"batchSize"`
}

// Defaults fills unset numeric fields.
func (c *PipelineConfig) Defaults() {
	if c.Label == "" {
		c.Label = "base_rag"
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = 512
	}
	if c.ChunkOverlap < 0 {
		c.ChunkOverlap = 0
	}
	if c.QuestionsPerNode <= 0 {
		c.QuestionsPerNode = 3
	}
	if c.TopK <= 0 {
		c.TopK = 2
	}
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
}

// Pipeline wires the four stages: load documents, build the index, generate
// the synthetic dataset, evaluate. The generator LLM answers questions and
// writes the dataset; the judge LLM scores predictions.
type Pipeline struct {
	loader   *Loader
	llm      LLMProvider
	judgeLLM LLMProvider
	embedder Embedder
	store    VectorStore
	keyword  *KeywordRetriever // optional second pipeline, scored as "<label>_bm25"
}

func NewPipeline(loader *Loader, llm, judgeLLM LLMProvider, embedder Embedder, store VectorStore) *Pipeline {
	return &Pipeline{
		loader:   loader,
		llm:      llm,
		judgeLLM: judgeLLM,
		embedder: embedder,
		store:    store,
	}
}

// WithKeywordRetriever enables the keyword comparison pipeline.
func (p *Pipeline) WithKeywordRetriever(kr *KeywordRetriever) *Pipeline {
	p.keyword = kr
	return p
}

// RunReport is the outcome of one full pipeline run.
type RunReport struct {
	Label         string                   `json:"label"`
	DocumentCount int                      `json:"documentCount"`
	NodeCount     int                      `json:"nodeCount"`
	ExampleCount  int                      `json:"exampleCount"`
	Shortfall     int                      `json:"shortfall"`
	Summaries     []ScoreSummary           `json:"summaries"`
	Records       map[string][]ScoreRecord `json:"records"`
}

// Run executes the full pipeline. The progress callback, when non-nil, is
// invoked once per scored example across all evaluated pipelines.
func (p *Pipeline) Run(ctx context.Context, cfg PipelineConfig, progress func()) (*RunReport, error) {
	cfg.Defaults()

	docs, err := p.loader.Load(cfg.DocsDir)
	if err != nil {
		return nil, err
	}
	log.Info("documents loaded", "count", len(docs), "dir", cfg.DocsDir)

	splitter := NewSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	nodes, err := splitter.Split(docs)
	if err != nil {
		return nil, err
	}
	log.Info("nodes created", "count", len(nodes))

	index, err := NewIndexBuilder(p.embedder, p.store).Build(ctx, nodes)
	if err != nil {
		return nil, err
	}

	generator, err := NewLLMDatasetGenerator(p.llm, cfg.QuestionsPerNode)
	if err != nil {
		return nil, err
	}
	dataset, err := generator.Generate(ctx, nodes)
	if err != nil {
		return nil, err
	}
	if len(dataset.Examples) == 0 {
		return nil, fmt.Errorf("dataset generation produced no examples")
	}
	log.Info("dataset generated", "examples", len(dataset.Examples), "shortfall", dataset.Shortfall)

	judge, err := NewLLMJudge(p.judgeLLM, p.embedder)
	if err != nil {
		return nil, err
	}

	report := &RunReport{
		Label:         cfg.Label,
		DocumentCount: len(docs),
		NodeCount:     len(nodes),
		ExampleCount:  len(dataset.Examples),
		Shortfall:     dataset.Shortfall,
		Records:       make(map[string][]ScoreRecord),
	}

	engine, err := NewQueryEngine(index, p.llm, cfg.TopK)
	if err != nil {
		return nil, err
	}
	records, summary, err := NewEvaluator(engine, judge, cfg.BatchSize).
		Evaluate(ctx, cfg.Label, dataset.Examples, progress)
	if err != nil {
		return nil, err
	}
	report.Summaries = append(report.Summaries, summary)
	report.Records[cfg.Label] = records

	if p.keyword != nil {
		keywordLabel := cfg.Label + "_bm25"
		if err := p.keyword.IndexNodes(ctx, nodes); err != nil {
			return nil, err
		}

		keywordEngine, err := NewQueryEngine(p.keyword, p.llm, cfg.TopK)
		if err != nil {
			return nil, err
		}
		keywordRecords, keywordSummary, err := NewEvaluator(keywordEngine, judge, cfg.BatchSize).
			Evaluate(ctx, keywordLabel, dataset.Examples, progress)
		if err != nil {
			return nil, err
		}
		report.Summaries = append(report.Summaries, keywordSummary)
		report.Records[keywordLabel] = keywordRecords
	}

	return report, nil
}
