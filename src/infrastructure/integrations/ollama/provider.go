package ollama

import (
	"context"
)

// Provider binds a Client to one generation model with fixed sampling
// parameters. Temperature defaults to 0 so repeated runs stay comparable.
type Provider struct {
	client      *Client
	model       string
	temperature float64
}

func NewProvider(client *Client, model string) *Provider {
	return &Provider{
		client: client,
		model:  model,
	}
}

// WithTemperature overrides the default temperature of 0.
func (p *Provider) WithTemperature(t float64) *Provider {
	p.temperature = t
	return p
}

// Generate generates a completion with the bound model.
func (p *Provider) Generate(ctx context.Context, system string, prompt string) (string, error) {
	return p.client.Generate(ctx, p.model, system, prompt, map[string]interface{}{
		"temperature": p.temperature,
	})
}

// Embedder binds a Client to one embedding model.
type Embedder struct {
	client *Client
	model  string
}

func NewEmbedder(client *Client, model string) *Embedder {
	return &Embedder{
		client: client,
		model:  model,
	}
}

// GetEmbedding generates an embedding with the bound model.
func (e *Embedder) GetEmbedding(ctx context.Context, input string) ([]float32, error) {
	return e.client.GetEmbedding(ctx, e.model, input)
}
