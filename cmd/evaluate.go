package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	"ragbench/src/core/rageval"
	"ragbench/src/storage/weaviate"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a pipeline against a previously generated dataset",
	Long: `The evaluate command reads a dataset produced by the generate command and
scores a retrieval pipeline backed by an existing weaviate class. Use the
index command first to populate the class.`,
	RunE: runEvaluate,
}

func init() {
	rootCmd.AddCommand(evaluateCmd)
	settingDefaultConfig()

	evaluateCmd.Flags().StringP("dataset", "i", "", "Dataset JSON produced by the generate command")
	evaluateCmd.MarkFlagRequired("dataset")
	evaluateCmd.Flags().String("class", "RagbenchNode", "Weaviate class holding the index")
	evaluateCmd.Flags().StringP("label", "l", viper.GetString("eval.label"), "Pipeline label used in the score table")
	evaluateCmd.Flags().Int("top-k", viper.GetInt("eval.top_k"), "Number of nodes retrieved per query")
	evaluateCmd.Flags().Int("batch-size", viper.GetInt("eval.batch_size"), "Maximum number of examples evaluated concurrently")
	evaluateCmd.Flags().StringP("out", "o", ".", "Output directory for the score summary and record dump")
}

func runEvaluate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	llm, embedder, err := buildProviders()
	if err != nil {
		return err
	}

	datasetPath, _ := cmd.Flags().GetString("dataset")
	data, err := os.ReadFile(datasetPath)
	if err != nil {
		return fmt.Errorf("failed to read dataset: %w", err)
	}
	var dataset rageval.Dataset
	if err := json.Unmarshal(data, &dataset); err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}
	if len(dataset.Examples) == 0 {
		return fmt.Errorf("dataset %s contains no examples", datasetPath)
	}

	class, _ := cmd.Flags().GetString("class")
	wc := weaviateClient.New(weaviateClient.Config{
		Host:   viper.GetString("weaviate.url"),
		Scheme: "http",
	})
	store, err := rageval.NewWeaviateVectorStore(ctx, weaviate.NewSDK(wc), class)
	if err != nil {
		return err
	}
	index := rageval.OpenIndex(embedder, store)

	topK, _ := cmd.Flags().GetInt("top-k")
	engine, err := rageval.NewQueryEngine(index, llm, topK)
	if err != nil {
		return err
	}
	judge, err := rageval.NewLLMJudge(llm, embedder)
	if err != nil {
		return err
	}

	batchSize, _ := cmd.Flags().GetInt("batch-size")
	label, _ := cmd.Flags().GetString("label")
	evaluator := rageval.NewEvaluator(engine, judge, batchSize)

	bar := progressbar.Default(int64(len(dataset.Examples)), "scoring examples")
	records, summary, err := evaluator.Evaluate(ctx, label, dataset.Examples, func() { bar.Add(1) })
	bar.Finish()
	fmt.Println()
	if err != nil {
		return err
	}

	report := &rageval.RunReport{
		Label:        label,
		ExampleCount: len(dataset.Examples),
		Shortfall:    dataset.Shortfall,
		Summaries:    []rageval.ScoreSummary{summary},
		Records:      map[string][]rageval.ScoreRecord{label: records},
	}
	outDir, _ := cmd.Flags().GetString("out")
	if err := writeReport(outDir, report); err != nil {
		return err
	}

	return rageval.WriteSummary(os.Stdout, report.Summaries)
}
