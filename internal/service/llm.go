package service

import (
	"context"

	"github.com/set-night/erpchat/internal/domain"
)

// LLM turns a fully assembled prompt into answer text.
type LLM interface {
	Generate(ctx context.Context, prompt string, temperature float64) (string, error)
}

// Embedder returns one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex stores chunk embeddings and answers nearest-neighbour queries.
type VectorIndex interface {
	// ReplaceSource swaps every chunk of source for chunks atomically.
	ReplaceSource(ctx context.Context, source string, chunks []domain.Chunk) error
	Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalMatch, error)
	DeleteSource(ctx context.Context, source string) error
}

// HistoryStore persists conversation turns.
type HistoryStore interface {
	Append(ctx context.Context, sessionID, question, answer string) error
	Load(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error)
}
