package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/jackc/pgx/v5"

	"github.com/set-night/erpchat/internal/domain"
)

// HistoryStore persists chat turns per session.
type HistoryStore struct {
	db DBTX
}

func NewHistoryStore(db DBTX) *HistoryStore {
	return &HistoryStore{db: db}
}

func (s *HistoryStore) Append(ctx context.Context, sessionID, question, answer string) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO chats (session_id, question, answer, timestamp) VALUES ($1, $2, $3, now())`,
		sessionID, question, answer,
	)
	if err != nil {
		return fmt.Errorf("append chat turn: %w", err)
	}
	return nil
}

// Load returns the newest limit turns of a session, oldest first.
func (s *HistoryStore) Load(ctx context.Context, sessionID string, limit int) ([]domain.Turn, error) {
	rows, err := s.db.Query(ctx,
		`SELECT chat_id, session_id, question, answer, timestamp
		 FROM chats
		 WHERE session_id = $1
		 ORDER BY timestamp DESC, chat_id DESC
		 LIMIT $2`,
		sessionID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	turns, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Turn, error) {
		var t domain.Turn
		err := row.Scan(&t.ID, &t.SessionID, &t.Question, &t.Answer, &t.Timestamp)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	slices.Reverse(turns)
	return turns, nil
}

// Clear drops every turn of a session. It reports domain.ErrNotFound when
// the session has no turns.
func (s *HistoryStore) Clear(ctx context.Context, sessionID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM chats WHERE session_id = $1`, sessionID)
	if err != nil {
		return fmt.Errorf("clear chat history: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
