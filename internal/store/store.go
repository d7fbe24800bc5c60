// Package store provides persistence for chat sessions.
package store

import (
	"context"

	"github.com/xqin77/chatstream/internal/domain"
)

// Store defines the persistence operations for chat sessions.
type Store interface {
	// SaveSession upserts a session keyed by thread id: an existing record's
	// messages are overwritten wholesale and its ts refreshed; otherwise a
	// new record is inserted. Returns the persisted session.
	SaveSession(ctx context.Context, session *domain.ChatSession) (*domain.ChatSession, error)

	// GetSessionByThreadID looks up a session. Returns (nil, nil) when no
	// session exists for the thread id.
	GetSessionByThreadID(ctx context.Context, threadID string) (*domain.ChatSession, error)

	// Close releases the underlying connection.
	Close() error
}
