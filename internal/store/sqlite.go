package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/xqin77/chatstream/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a new SQLite store and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return s, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS chat_streams (
			id TEXT PRIMARY KEY,
			thread_id TEXT NOT NULL UNIQUE,
			messages TEXT NOT NULL DEFAULT '[]',
			ts DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_chat_streams_thread ON chat_streams(thread_id)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// SaveSession upserts a session by thread id.
func (s *SQLiteStore) SaveSession(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error) {
	messages, err := json.Marshal(session.Messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal messages: %w", err)
	}

	now := time.Now()

	var existingID string
	err = s.db.QueryRowContext(ctx,
		`SELECT id FROM chat_streams WHERE thread_id = ?`, session.ThreadID,
	).Scan(&existingID)

	switch {
	case err == sql.ErrNoRows:
		if _, err := s.db.ExecContext(ctx,
			`INSERT INTO chat_streams (id, thread_id, messages, ts) VALUES (?, ?, ?, ?)`,
			session.ID, session.ThreadID, string(messages), now,
		); err != nil {
			return nil, fmt.Errorf("failed to insert session: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("failed to query session: %w", err)
	default:
		if _, err := s.db.ExecContext(ctx,
			`UPDATE chat_streams SET messages = ?, ts = ? WHERE thread_id = ?`,
			string(messages), now, session.ThreadID,
		); err != nil {
			return nil, fmt.Errorf("failed to update session: %w", err)
		}
		session.ID = existingID
	}

	session.Ts = now
	return session, nil
}

// GetSessionByThreadID looks up a session by thread id.
func (s *SQLiteStore) GetSessionByThreadID(ctx context.Context, threadID string) (*domain.ChatSession, error) {
	var (
		session  domain.ChatSession
		messages string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, thread_id, messages, ts FROM chat_streams WHERE thread_id = ?`, threadID,
	).Scan(&session.ID, &session.ThreadID, &messages, &session.Ts)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	if err := json.Unmarshal([]byte(messages), &session.Messages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return &session, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
