package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/set-night/erpchat/internal/domain"
)

// PostgresIndex stores chunk embeddings in the rag_chunks table of the chat
// database and ranks them in process.
type PostgresIndex struct {
	db DBTX
}

func NewPostgresIndex(db DBTX) *PostgresIndex {
	return &PostgresIndex{db: db}
}

func (p *PostgresIndex) Upsert(ctx context.Context, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}
	return upsertChunksPG(ctx, p.db, chunks)
}

// ReplaceSource deletes the chunks of source and stores chunks in one
// transaction, so a failed write keeps the previous chunks.
func (p *PostgresIndex) ReplaceSource(ctx context.Context, source string, chunks []domain.Chunk) error {
	if err := checkEmbeddings(chunks); err != nil {
		return err
	}
	return pgx.BeginFunc(ctx, p.db, func(tx pgx.Tx) error {
		if err := deleteSourcePG(ctx, tx, source); err != nil {
			return err
		}
		return upsertChunksPG(ctx, tx, chunks)
	})
}

func upsertChunksPG(ctx context.Context, db DBTX, chunks []domain.Chunk) error {
	batch := &pgx.Batch{}
	for _, c := range chunks {
		batch.Queue(
			`INSERT INTO rag_chunks (chunk_id, content, source, embedding)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (chunk_id) DO UPDATE
			 SET content = EXCLUDED.content, source = EXCLUDED.source, embedding = EXCLUDED.embedding`,
			c.ID, c.Content, c.Source, c.Embedding,
		)
	}

	br := db.SendBatch(ctx, batch)
	defer br.Close()
	for range chunks {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("upsert chunk: %w", err)
		}
	}
	return br.Close()
}

func deleteSourcePG(ctx context.Context, db DBTX, source string) error {
	if _, err := db.Exec(ctx, `DELETE FROM rag_chunks WHERE source = $1`, source); err != nil {
		return fmt.Errorf("delete chunks of %s: %w", source, err)
	}
	return nil
}

func (p *PostgresIndex) Search(ctx context.Context, embedding []float32, k int) ([]domain.RetrievalMatch, error) {
	rows, err := p.db.Query(ctx,
		`SELECT chunk_id, content, source, embedding FROM rag_chunks ORDER BY created_at, chunk_id`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	chunks, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Chunk, error) {
		var c domain.Chunk
		err := row.Scan(&c.ID, &c.Content, &c.Source, &c.Embedding)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan chunks: %w", err)
	}
	return rank(embedding, chunks, k), nil
}

func (p *PostgresIndex) DeleteSource(ctx context.Context, source string) error {
	return deleteSourcePG(ctx, p.db, source)
}

func (p *PostgresIndex) Count(ctx context.Context) (int, error) {
	var n int
	if err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM rag_chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}
