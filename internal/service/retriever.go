package service

import (
	"context"
	"log/slog"

	"github.com/set-night/erpchat/internal/config"
	"github.com/set-night/erpchat/internal/domain"
)

// Retriever finds the indexed passages closest to a question.
type Retriever struct {
	embedder Embedder
	index    VectorIndex
}

func NewRetriever(embedder Embedder, index VectorIndex) *Retriever {
	return &Retriever{embedder: embedder, index: index}
}

// Query returns up to k matches, best first. Queries carry the retrieval
// instruction prefix; stored chunks never do. Embedding or index failures are
// logged and produce an empty result.
func (r *Retriever) Query(ctx context.Context, text string, k int) []domain.RetrievalMatch {
	vecs, err := r.embedder.Embed(ctx, []string{config.QueryInstruction + text})
	if err != nil {
		slog.Warn("embed query failed", "error", err)
		return []domain.RetrievalMatch{}
	}
	if len(vecs) == 0 {
		slog.Warn("embed query returned no vector")
		return []domain.RetrievalMatch{}
	}

	matches, err := r.index.Search(ctx, vecs[0], k)
	if err != nil {
		slog.Warn("vector search failed", "error", err)
		return []domain.RetrievalMatch{}
	}
	if matches == nil {
		return []domain.RetrievalMatch{}
	}
	return matches
}
