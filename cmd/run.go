package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"ragbench/src/core/rageval"
	"ragbench/src/fsutil"
	"ragbench/src/log"
	"ragbench/src/storage/esctrl"
	"ragbench/src/storage/weaviate"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full evaluation pipeline against a document directory",
	Long: `The run command executes all four stages in one process: load the documents,
build the index, generate the synthetic dataset, and score the pipeline.
Score summary and per-example records are written to the output directory.`,
	RunE: runEvaluation,
}

func init() {
	rootCmd.AddCommand(runCmd)
	settingDefaultConfig()

	runCmd.Flags().StringP("docs", "d", "", "Directory containing the document corpus")
	runCmd.MarkFlagRequired("docs")
	runCmd.Flags().StringP("label", "l", viper.GetString("eval.label"), "Pipeline label used in the score table")
	runCmd.Flags().Int("chunk-size", viper.GetInt("eval.chunk_size"), "Chunk size in tokens")
	runCmd.Flags().Int("chunk-overlap", viper.GetInt("eval.chunk_overlap"), "Chunk overlap in tokens")
	runCmd.Flags().Int("questions-per-node", viper.GetInt("eval.questions_per_node"), "Question/answer pairs generated per node")
	runCmd.Flags().Int("top-k", viper.GetInt("eval.top_k"), "Number of nodes retrieved per query")
	runCmd.Flags().Int("batch-size", viper.GetInt("eval.batch_size"), "Maximum number of examples evaluated concurrently")
	runCmd.Flags().StringP("out", "o", ".", "Output directory for the score summary and record dumps")
	runCmd.Flags().String("store", "memory", "Vector store backend (memory or weaviate)")
	runCmd.Flags().String("class", "RagbenchNode", "Weaviate class name (store=weaviate only)")
	runCmd.Flags().Bool("bm25", false, "Also score an elasticsearch BM25 pipeline for comparison")
}

func runEvaluation(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	llm, embedder, err := buildProviders()
	if err != nil {
		return err
	}

	store, err := buildVectorStore(ctx, cmd)
	if err != nil {
		return err
	}

	loader := rageval.NewLoader(fsutil.NewLocalFileStore())
	pipeline := rageval.NewPipeline(loader, llm, llm, embedder, store)

	if useBM25, _ := cmd.Flags().GetBool("bm25"); useBM25 {
		esClient, err := elasticsearch.NewClient(elasticsearch.Config{
			Addresses: []string{viper.GetString("elasticsearch.url")},
		})
		if err != nil {
			return fmt.Errorf("failed to create elasticsearch client: %w", err)
		}
		es := esctrl.NewService(esClient, viper.GetString("elasticsearch.index"))
		pipeline = pipeline.WithKeywordRetriever(rageval.NewKeywordRetriever(es))
	}

	cfg := pipelineConfigFromFlags(cmd)

	bar := progressbar.Default(-1, "scoring examples")
	report, err := pipeline.Run(ctx, cfg, func() { bar.Add(1) })
	bar.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	if report.Shortfall > 0 {
		log.Info("dataset smaller than requested", "shortfall", report.Shortfall)
	}

	outDir, _ := cmd.Flags().GetString("out")
	if err := writeReport(outDir, report); err != nil {
		return err
	}

	return rageval.WriteSummary(os.Stdout, report.Summaries)
}

func buildVectorStore(ctx context.Context, cmd *cobra.Command) (rageval.VectorStore, error) {
	backend, _ := cmd.Flags().GetString("store")
	switch backend {
	case "memory":
		return rageval.NewMemoryVectorStore(), nil
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.url"),
			Scheme: "http",
		})
		class, _ := cmd.Flags().GetString("class")
		return rageval.NewWeaviateVectorStore(ctx, weaviate.NewSDK(wc), class)
	default:
		return nil, fmt.Errorf("unknown vector store backend %q", backend)
	}
}

func pipelineConfigFromFlags(cmd *cobra.Command) rageval.PipelineConfig {
	cfg := rageval.PipelineConfig{}
	cfg.DocsDir, _ = cmd.Flags().GetString("docs")
	cfg.Label, _ = cmd.Flags().GetString("label")
	cfg.ChunkSize, _ = cmd.Flags().GetInt("chunk-size")
	cfg.ChunkOverlap, _ = cmd.Flags().GetInt("chunk-overlap")
	cfg.QuestionsPerNode, _ = cmd.Flags().GetInt("questions-per-node")
	cfg.TopK, _ = cmd.Flags().GetInt("top-k")
	cfg.BatchSize, _ = cmd.Flags().GetInt("batch-size")
	return cfg
}

func writeReport(outDir string, report *rageval.RunReport) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	summaryPath := filepath.Join(outDir, "score_summary.csv")
	summaryFile, err := os.Create(summaryPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", summaryPath, err)
	}
	defer summaryFile.Close()
	if err := rageval.WriteSummary(summaryFile, report.Summaries); err != nil {
		return err
	}

	for label, records := range report.Records {
		recordsPath := filepath.Join(outDir, fmt.Sprintf("records_%s.json", label))
		recordsFile, err := os.Create(recordsPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", recordsPath, err)
		}
		if err := rageval.WriteRecords(recordsFile, label, records); err != nil {
			recordsFile.Close()
			return err
		}
		recordsFile.Close()
	}

	log.Info("report written", "dir", outDir, "pipelines", len(report.Records))
	return nil
}
