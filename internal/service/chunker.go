package service

import (
	"fmt"

	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/textsplitter"
)

// Chunker splits documents into overlapping windows, keeping document order.
type Chunker struct {
	splitter textsplitter.TextSplitter
}

func NewChunker(size, overlap int) *Chunker {
	return &Chunker{
		splitter: textsplitter.NewRecursiveCharacter(
			textsplitter.WithChunkSize(size),
			textsplitter.WithChunkOverlap(overlap),
		),
	}
}

// Split returns the chunk texts of docs. No documents yields no chunks.
func (c *Chunker) Split(docs []schema.Document) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	parts, err := textsplitter.SplitDocuments(c.splitter, docs)
	if err != nil {
		return nil, fmt.Errorf("split documents: %w", err)
	}
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, p.PageContent)
	}
	return out, nil
}
