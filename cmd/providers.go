package cmd

import (
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"ragbench/src/core/rageval"
	"ragbench/src/infrastructure/integrations/ollama"
	"ragbench/src/infrastructure/integrations/openai"
)

// buildProviders returns the generation LLM and the embedder configured by
// llm.provider. The judge shares the generation provider.
func buildProviders() (rageval.LLMProvider, rageval.Embedder, error) {
	switch provider := viper.GetString("llm.provider"); provider {
	case "ollama":
		client := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
			Timeout: 5 * time.Minute,
		})
		llm := ollama.NewProvider(client, viper.GetString("ollama.model"))
		embedder := ollama.NewEmbedder(client, viper.GetString("ollama.embedding_model"))
		return llm, embedder, nil
	case "openai":
		cfg := openai.Config{
			APIKey:         viper.GetString("openai.api_key"),
			BaseURL:        viper.GetString("openai.base_url"),
			Model:          viper.GetString("openai.model"),
			EmbeddingModel: viper.GetString("openai.embedding_model"),
		}
		llm, err := openai.NewProvider(cfg)
		if err != nil {
			return nil, nil, err
		}
		embedder, err := openai.NewEmbedder(cfg)
		if err != nil {
			return nil, nil, err
		}
		return llm, embedder, nil
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}
