package repository

import (
	"fmt"
	"math"
	"sort"

	"github.com/set-night/erpchat/internal/domain"
)

// cosineSimilarity is 0 for vectors of different length or zero norm.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// rank scores every chunk against the query and keeps the k best, highest
// score first. Ties keep insertion order.
func rank(query []float32, chunks []domain.Chunk, k int) []domain.RetrievalMatch {
	type scored struct {
		chunk domain.Chunk
		score float64
	}

	results := make([]scored, 0, len(chunks))
	for _, c := range chunks {
		results = append(results, scored{chunk: c, score: cosineSimilarity(query, c.Embedding)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})
	if k >= 0 && len(results) > k {
		results = results[:k]
	}

	matches := make([]domain.RetrievalMatch, len(results))
	for i, r := range results {
		matches[i] = domain.RetrievalMatch{
			ChunkID: r.chunk.ID,
			Content: r.chunk.Content,
			Source:  r.chunk.Source,
			Rank:    i,
			Score:   r.score,
		}
	}
	return matches
}

// checkEmbeddings rejects a batch whose vectors are empty or differ in
// dimension.
func checkEmbeddings(chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	dim := len(chunks[0].Embedding)
	for _, c := range chunks {
		if len(c.Embedding) == 0 || len(c.Embedding) != dim {
			return fmt.Errorf("chunk %s has %d dimensions, want %d: %w",
				c.ID, len(c.Embedding), dim, domain.ErrEmbeddingMismatch)
		}
	}
	return nil
}
