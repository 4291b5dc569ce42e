package service

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

// Gemini serves both generation and embeddings from one Google AI client.
type Gemini struct {
	client *googleai.GoogleAI
}

var (
	_ LLM      = (*Gemini)(nil)
	_ Embedder = (*Gemini)(nil)
)

func NewGemini(ctx context.Context, apiKey, model, embeddingModel string) (*Gemini, error) {
	client, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
		googleai.WithDefaultEmbeddingModel(embeddingModel),
	)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client}, nil
}

func (g *Gemini) Generate(ctx context.Context, prompt string, temperature float64) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.client, prompt, llms.WithTemperature(temperature))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return out, nil
}

func (g *Gemini) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := g.client.CreateEmbedding(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if len(vecs) != len(texts) {
		return nil, fmt.Errorf("gemini embed: got %d vectors for %d texts", len(vecs), len(texts))
	}
	return vecs, nil
}
