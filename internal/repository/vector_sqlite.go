package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/set-night/erpchat/internal/domain"
)

// SQLiteIndex is a file-backed index for running without the chat
// database's rag_chunks table. Embeddings are stored as JSON blobs.
type SQLiteIndex struct {
	mu sync.RWMutex
	db *sql.DB
}

func NewSQLiteIndex(path string) (*SQLiteIndex, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create index directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite index: %w", err)
	}

	const schema = `
	CREATE TABLE IF NOT EXISTS chunks (
		id         TEXT PRIMARY KEY,
		source     TEXT NOT NULL,
		content    TEXT NOT NULL,
		embedding  BLOB NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_chunks_source ON chunks(source);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite index schema: %w", err)
	}
	return &SQLiteIndex{db: db}, nil
}

func (s *SQLiteIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		return upsertChunks(ctx, tx, chunks)
	})
}

// ReplaceSource deletes the chunks of source and stores chunks in one
// transaction, so a failed write keeps the previous chunks.
func (s *SQLiteIndex) ReplaceSource(ctx context.Context, source string, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM chunks WHERE source = ?`, source); err != nil {
			return fmt.Errorf("delete chunks of %s: %w", source, err)
		}
		return upsertChunks(ctx, tx, chunks)
	})
}

func (s *SQLiteIndex) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin chunk write: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func upsertChunks(ctx context.Context, tx *sql.Tx, chunks []domain.Chunk) error {
	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks (id, source, content, embedding) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		vec, err := json.Marshal(c.Embedding)
		if err != nil {
			return fmt.Errorf("encode embedding of %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Source, c.Content, vec); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}
	return nil
}

func (s *SQLiteIndex) Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalMatch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, source, content, embedding FROM chunks ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk
	for rows.Next() {
		var (
			c   domain.Chunk
			vec []byte
		)
		if err := rows.Scan(&c.ID, &c.Source, &c.Content, &vec); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		if err := json.Unmarshal(vec, &c.Embedding); err != nil {
			slog.Warn("skipping chunk with corrupt embedding", "chunk_id", c.ID, "error", err)
			continue
		}
		chunks = append(chunks, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}
	return rank(embedding, chunks, k), nil
}

func (s *SQLiteIndex) DeleteSource(ctx context.Context, source string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM chunks WHERE source = ?`, source); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", source, err)
	}
	return nil
}

func (s *SQLiteIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (s *SQLiteIndex) Close() error {
	return s.db.Close()
}
