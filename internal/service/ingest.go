package service

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"

	"github.com/set-night/erpchat/internal/domain"
	"github.com/set-night/erpchat/internal/metrics"
)

// Ingestor loads documents into the vector index.
type Ingestor struct {
	chunker  *Chunker
	embedder Embedder
	index    VectorIndex
	metrics  *metrics.Metrics
}

func NewIngestor(chunker *Chunker, embedder Embedder, index VectorIndex, m *metrics.Metrics) *Ingestor {
	return &Ingestor{chunker: chunker, embedder: embedder, index: index, metrics: m}
}

// IngestReport summarizes a directory run.
type IngestReport struct {
	Files   int
	Skipped int
	Failed  int
	Chunks  int
}

func ChunkID(source string, i int) string {
	return fmt.Sprintf("%s_chunk_%d", source, i)
}

// IngestFile replaces every chunk previously stored for the file's base name.
// A document without text is logged and skipped, reporting zero chunks.
func (in *Ingestor) IngestFile(ctx context.Context, path string) (int, error) {
	n, err := in.ingestFile(ctx, path)
	if errors.Is(err, domain.ErrEmptyDocument) {
		slog.Warn("document has no content, skipping", "source", filepath.Base(path))
		return 0, nil
	}
	in.metrics.ObserveIngest(n, err)
	return n, err
}

func (in *Ingestor) ingestFile(ctx context.Context, path string) (int, error) {
	source := filepath.Base(path)

	docs, err := LoadDocument(ctx, path)
	if err != nil {
		return 0, err
	}
	texts, err := in.chunker.Split(docs)
	if err != nil {
		return 0, err
	}
	if len(texts) == 0 {
		return 0, domain.ErrEmptyDocument
	}

	// Chunks are embedded as-is: the query instruction belongs to queries only.
	vecs, err := in.embedder.Embed(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks of %s: %w", source, err)
	}
	if len(vecs) != len(texts) {
		return 0, fmt.Errorf("embed chunks of %s: %w", source, domain.ErrEmbeddingMismatch)
	}

	chunks := make([]domain.Chunk, len(texts))
	for i, text := range texts {
		chunks[i] = domain.Chunk{
			ID:        ChunkID(source, i),
			Content:   text,
			Source:    source,
			Embedding: vecs[i],
		}
	}

	if err := in.index.ReplaceSource(ctx, source, chunks); err != nil {
		return 0, fmt.Errorf("store chunks of %s: %w", source, err)
	}

	slog.Info("document ingested", "source", source, "chunks", len(chunks))
	return len(chunks), nil
}

// IngestDir ingests every supported file under dir. A failing file is logged
// and does not stop the others.
func (in *Ingestor) IngestDir(ctx context.Context, dir string) (IngestReport, error) {
	var rep IngestReport
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		rep.Files++
		n, err := in.IngestFile(ctx, path)
		switch {
		case err != nil:
			rep.Failed++
			slog.Error("ingest document failed", "path", path, "error", err)
		case n == 0:
			rep.Skipped++
		default:
			rep.Chunks += n
		}
		return nil
	})
	if err != nil {
		return rep, fmt.Errorf("walk %s: %w", dir, err)
	}
	return rep, nil
}
