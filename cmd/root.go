package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ragbench/src/log"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragbench",
	Short: "Evaluate retrieval-augmented generation pipelines",
	Long: `ragbench loads a document corpus, builds a vector index over its chunks,
generates a synthetic question/answer dataset from the same chunks, and scores
one or more retrieval pipelines against that dataset with an LLM judge.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return log.Setup(verbose)
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
