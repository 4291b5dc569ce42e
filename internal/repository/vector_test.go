package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/set-night/erpchat/internal/domain"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"same", []float32{1, 0, 0}, []float32{1, 0, 0}, 1},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cosineSimilarity(tt.a, tt.b); got != tt.want {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRankOrdersAndTruncates(t *testing.T) {
	chunks := []domain.Chunk{
		{ID: "far", Content: "far", Source: "a.txt", Embedding: []float32{0, 1}},
		{ID: "near", Content: "near", Source: "b.txt", Embedding: []float32{1, 0}},
		{ID: "mid", Content: "mid", Source: "a.txt", Embedding: []float32{1, 1}},
	}

	got := rank([]float32{1, 0}, chunks, 2)
	ids := []string{}
	for i, m := range got {
		ids = append(ids, m.ChunkID)
		if m.Rank != i {
			t.Errorf("match %d has rank %d", i, m.Rank)
		}
	}
	if diff := cmp.Diff([]string{"near", "mid"}, ids); diff != "" {
		t.Errorf("rank ids (-want +got):\n%s", diff)
	}
	if got[0].Source != "b.txt" || got[0].Content != "near" {
		t.Errorf("top match = %+v", got[0])
	}
}

func TestCheckEmbeddings(t *testing.T) {
	ok := []domain.Chunk{{ID: "a", Embedding: []float32{1, 2}}, {ID: "b", Embedding: []float32{3, 4}}}
	if err := checkEmbeddings(ok); err != nil {
		t.Fatalf("checkEmbeddings: %v", err)
	}

	bad := []domain.Chunk{{ID: "a", Embedding: []float32{1, 2}}, {ID: "b", Embedding: []float32{3}}}
	if err := checkEmbeddings(bad); !errors.Is(err, domain.ErrEmbeddingMismatch) {
		t.Errorf("err = %v, want ErrEmbeddingMismatch", err)
	}

	empty := []domain.Chunk{{ID: "a"}}
	if err := checkEmbeddings(empty); !errors.Is(err, domain.ErrEmbeddingMismatch) {
		t.Errorf("err = %v, want ErrEmbeddingMismatch", err)
	}
}

// index is the behaviour shared by the in-memory and SQLite indexes.
type index interface {
	Upsert(ctx context.Context, chunks []domain.Chunk) error
	Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalMatch, error)
	DeleteSource(ctx context.Context, source string) error
	ReplaceSource(ctx context.Context, source string, chunks []domain.Chunk) error
	Count(ctx context.Context) (int, error)
}

func testIndex(t *testing.T, idx index) {
	ctx := context.Background()

	chunks := []domain.Chunk{
		{ID: "policy.pdf_chunk_0", Source: "policy.pdf", Content: "nghỉ phép", Embedding: []float32{1, 0, 0}},
		{ID: "policy.pdf_chunk_1", Source: "policy.pdf", Content: "lương", Embedding: []float32{0, 1, 0}},
		{ID: "faq.md_chunk_0", Source: "faq.md", Content: "đổi trả", Embedding: []float32{0, 0, 1}},
	}
	if err := idx.Upsert(ctx, chunks); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	got, err := idx.Search(ctx, []float32{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 2 || got[0].ChunkID != "policy.pdf_chunk_0" {
		t.Fatalf("Search = %+v", got)
	}
	if got[0].Score < got[1].Score {
		t.Errorf("scores not descending: %v < %v", got[0].Score, got[1].Score)
	}

	// Re-ingesting the same id replaces the chunk.
	replaced := chunks[2]
	replaced.Content = "đổi trả trong 7 ngày"
	if err := idx.Upsert(ctx, []domain.Chunk{replaced}); err != nil {
		t.Fatalf("Upsert replace: %v", err)
	}
	if n, _ := idx.Count(ctx); n != 3 {
		t.Errorf("Count after replace = %d, want 3", n)
	}
	got, _ = idx.Search(ctx, []float32{0, 0, 1}, 1)
	if len(got) != 1 || got[0].Content != "đổi trả trong 7 ngày" {
		t.Errorf("Search after replace = %+v", got)
	}

	if err := idx.DeleteSource(ctx, "policy.pdf"); err != nil {
		t.Fatalf("DeleteSource: %v", err)
	}
	if n, _ := idx.Count(ctx); n != 1 {
		t.Errorf("Count after delete = %d, want 1", n)
	}
	got, _ = idx.Search(ctx, []float32{1, 0, 0}, 3)
	if len(got) != 1 || got[0].Source != "faq.md" {
		t.Errorf("Search after delete = %+v", got)
	}
}

func testReplaceSource(t *testing.T, idx index) {
	ctx := context.Background()

	old := []domain.Chunk{
		{ID: "policy.pdf_chunk_0", Source: "policy.pdf", Content: "cũ 0", Embedding: []float32{1, 0}},
		{ID: "policy.pdf_chunk_1", Source: "policy.pdf", Content: "cũ 1", Embedding: []float32{0, 1}},
		{ID: "faq.md_chunk_0", Source: "faq.md", Content: "đổi trả", Embedding: []float32{1, 1}},
	}
	if err := idx.Upsert(ctx, old); err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	broken := []domain.Chunk{
		{ID: "policy.pdf_chunk_0", Source: "policy.pdf", Content: "mới", Embedding: []float32{1, 0}},
		{ID: "policy.pdf_chunk_1", Source: "policy.pdf", Content: "hỏng", Embedding: []float32{1}},
	}
	if err := idx.ReplaceSource(ctx, "policy.pdf", broken); err == nil {
		t.Fatal("ReplaceSource accepted mismatched embeddings")
	}
	if n, _ := idx.Count(ctx); n != 3 {
		t.Errorf("Count after failed replace = %d, want the 3 previous chunks", n)
	}

	fresh := []domain.Chunk{{ID: "policy.pdf_chunk_0", Source: "policy.pdf", Content: "mới", Embedding: []float32{1, 0}}}
	if err := idx.ReplaceSource(ctx, "policy.pdf", fresh); err != nil {
		t.Fatalf("ReplaceSource: %v", err)
	}
	if n, _ := idx.Count(ctx); n != 2 {
		t.Errorf("Count after replace = %d, want 2", n)
	}
	got, _ := idx.Search(ctx, []float32{1, 0}, 1)
	if len(got) != 1 || got[0].Content != "mới" {
		t.Errorf("Search after replace = %+v", got)
	}
}

func TestMemoryIndex(t *testing.T) {
	testIndex(t, NewMemoryIndex())
	testReplaceSource(t, NewMemoryIndex())
}

func newSQLiteIndex(t *testing.T) *SQLiteIndex {
	t.Helper()
	idx, err := NewSQLiteIndex(filepath.Join(t.TempDir(), "vectors.db"))
	if err != nil {
		t.Fatalf("NewSQLiteIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func TestSQLiteIndex(t *testing.T) {
	testIndex(t, newSQLiteIndex(t))
	testReplaceSource(t, newSQLiteIndex(t))
}

func TestMemoryIndexEmptySearch(t *testing.T) {
	got, err := NewMemoryIndex().Search(context.Background(), []float32{1}, 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Search on empty index = %+v", got)
	}
}
