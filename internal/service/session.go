package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/xqin77/chatstream/internal/domain"
)

// PersistSession bulk-persists a session directly, bypassing the workflow.
// Failure is reported in the response body rather than as an error: existing
// clients of POST /chat/streams expect HTTP 200 with success=false, so this
// compatibility quirk is preserved here on purpose.
func (s *Service) PersistSession(ctx context.Context, req *domain.PersistSessionRequest) domain.PersistSessionResponse {
	ts := time.Now().UTC().Format(time.RFC3339)

	failure := domain.PersistSessionResponse{
		Success:   false,
		ID:        "",
		ThreadID:  req.ThreadID,
		Timestamp: ts,
	}

	if req.ThreadID == "" {
		return failure
	}

	session, err := s.store.GetSessionByThreadID(ctx, req.ThreadID)
	if err != nil {
		log.Printf("WARN: failed to load session for thread %s: %v", req.ThreadID, err)
		return failure
	}
	if session == nil {
		session = domain.NewChatSession(req.ThreadID, req.Messages)
	} else {
		session.UpdateMessages(req.Messages)
	}

	saved, err := s.store.SaveSession(ctx, session)
	if err != nil {
		log.Printf("WARN: failed to persist session for thread %s: %v", req.ThreadID, err)
		return failure
	}

	return domain.PersistSessionResponse{
		Success:   true,
		ID:        saved.ID,
		ThreadID:  saved.ThreadID,
		Timestamp: ts,
	}
}

// GetSession retrieves a session by thread id. Returns (nil, nil) when no
// session exists.
func (s *Service) GetSession(ctx context.Context, threadID string) (*domain.ChatSession, error) {
	if threadID == "" {
		return nil, fmt.Errorf("thread id is required")
	}
	session, err := s.store.GetSessionByThreadID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}
