package repository

import (
	"context"
	"sync"

	"github.com/set-night/erpchat/internal/domain"
)

// MemoryIndex keeps chunks in process memory. Used for tests and for
// VECTOR_BACKEND=memory, where the index is rebuilt on every start.
type MemoryIndex struct {
	mu      sync.RWMutex
	order   []string
	chunks  map[string]domain.Chunk
	sources map[string][]string
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		chunks:  make(map[string]domain.Chunk),
		sources: make(map[string][]string),
	}
}

func (m *MemoryIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.upsertLocked(chunks)
	return nil
}

// ReplaceSource swaps the chunks of source for chunks under one lock.
func (m *MemoryIndex) ReplaceSource(ctx context.Context, source string, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(source)
	m.upsertLocked(chunks)
	return nil
}

func (m *MemoryIndex) upsertLocked(chunks []domain.Chunk) {
	for _, c := range chunks {
		if _, ok := m.chunks[c.ID]; !ok {
			m.order = append(m.order, c.ID)
			m.sources[c.Source] = append(m.sources[c.Source], c.ID)
		}
		m.chunks[c.ID] = c
	}
}

func (m *MemoryIndex) Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalMatch, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	all := make([]domain.Chunk, 0, len(m.order))
	for _, id := range m.order {
		all = append(all, m.chunks[id])
	}
	return rank(embedding, all, k), nil
}

// DeleteSource removes every chunk ingested from source.
func (m *MemoryIndex) DeleteSource(ctx context.Context, source string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteLocked(source)
	return nil
}

func (m *MemoryIndex) deleteLocked(source string) {
	ids, ok := m.sources[source]
	if !ok {
		return
	}
	gone := make(map[string]bool, len(ids))
	for _, id := range ids {
		delete(m.chunks, id)
		gone[id] = true
	}
	delete(m.sources, source)

	kept := m.order[:0]
	for _, id := range m.order {
		if !gone[id] {
			kept = append(kept, id)
		}
	}
	m.order = kept
}

func (m *MemoryIndex) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.chunks), nil
}
