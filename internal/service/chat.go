package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/xqin77/chatstream/internal/domain"
)

// StreamCallback is called for each text chunk produced by a legacy stream.
// Returning an error stops consumption.
type StreamCallback func(chunk string) error

// StreamChat is the envelope-level streaming entry point. It validates the
// request and delegates to the workflow adapter; no session persistence
// happens on this path (callers manage their own).
func (s *Service) StreamChat(ctx context.Context, req *domain.StreamChatRequest) (<-chan domain.StreamEvent, error) {
	if req == nil {
		return nil, fmt.Errorf("chat workflow error: stream chat request is required")
	}
	if len(req.Messages) == 0 {
		return nil, fmt.Errorf("chat workflow error: messages array cannot be empty")
	}

	events, err := s.workflow.StreamChat(ctx, req.Messages, req.Config)
	if err != nil {
		return nil, fmt.Errorf("chat workflow error: %w", err)
	}
	return events, nil
}

// StreamChatLegacy is the turn-level streaming entry point with session
// bookkeeping: it resolves or creates the thread's session, appends the
// user message, streams the workflow, and persists the session at defined
// checkpoints (on first chunk, on completion, and best-effort on failure).
// Text chunks are delivered through fn in engine-emission order; the
// first-chunk save happens before fn sees that chunk's text.
func (s *Service) StreamChatLegacy(ctx context.Context, req *domain.LegacyStreamChatRequest, fn StreamCallback) error {
	if req == nil || req.Message == "" {
		return fmt.Errorf("chat workflow error: message is required")
	}

	if s.policyEngine != nil {
		decision, reason, err := s.policyEngine.Evaluate(ctx, map[string]interface{}{
			"message_length": len(req.Message),
			"stream_mode":    req.StreamMode.First(),
			"thread_id":      req.ThreadID,
		})
		if err != nil {
			return fmt.Errorf("policy evaluation failed: %w", err)
		}
		if decision == "block" {
			return fmt.Errorf("chat request blocked by policy: %s", reason)
		}
	}

	session, err := s.resolveSession(ctx, req.ThreadID)
	if err != nil {
		return err
	}

	userMessage := domain.NewMessage(domain.RoleUser, req.Message)
	session.UpdateMessages(append(session.Messages, userMessage))

	engineMessages := make([]domain.Message, 0, len(session.Messages))
	for _, m := range session.Messages {
		converted, err := s.workflow.ConvertMessage(m.Role, m.Content)
		if err != nil {
			return err
		}
		engineMessages = append(engineMessages, converted)
	}

	mode := domain.StreamMode(req.StreamMode.First())
	if mode == "" {
		mode = domain.StreamMode(s.config.DefaultStreamMode)
	}

	// Cancel the producer if consumption stops early.
	streamCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := s.workflow.StreamChat(streamCtx, engineMessages, domain.StreamConfig{
		ThreadID:       session.ThreadID,
		StreamMode:     mode,
		Subgraphs:      req.Subgraphs,
		RecursionLimit: req.RecursionLimit,
	})
	if err != nil {
		return fmt.Errorf("chat workflow error: %w", err)
	}

	return s.consumeWithPersistence(ctx, events, session, fn)
}

// consumeWithPersistence projects stream events into text chunks while
// maintaining the session's durability checkpoints: the user turn is saved
// before the first chunk is delivered, accumulated content is saved after a
// successful run, and partial content is salvaged with an error marker when
// the run fails midway.
func (s *Service) consumeWithPersistence(ctx context.Context, events <-chan domain.StreamEvent, session *domain.ChatSession, fn StreamCallback) error {
	var fullContent string
	firstChunk := true
	var streamErr error

consume:
	for ev := range events {
		switch ev.Event {
		case domain.StreamEventChunk:
			fullContent += ev.Data.Content

			if firstChunk {
				if _, err := s.store.SaveSession(ctx, session); err != nil {
					streamErr = fmt.Errorf("failed to save session: %w", err)
					break consume
				}
				firstChunk = false
			}

			if err := fn(ev.Data.Content); err != nil {
				streamErr = err
				break consume
			}

		case domain.StreamEventComplete:
			if ev.Data.FinalResponse != "" {
				fullContent = ev.Data.FinalResponse
			}

		case domain.StreamEventError:
			streamErr = errors.New(ev.Data.Message)
			break consume
		}
	}

	if streamErr != nil {
		// Never lose partial generations: persist what was produced with an
		// explicit marker, then report the failure.
		if fullContent != "" {
			salvage := domain.NewMessage(domain.RoleAssistant, fullContent+"\n[Error occurred during generation]")
			session.UpdateMessages(append(session.Messages, salvage))
			if _, err := s.store.SaveSession(ctx, session); err != nil {
				log.Printf("WARN: failed to persist partial response for thread %s: %v", session.ThreadID, err)
			}
		}
		return streamErr
	}

	if fullContent != "" {
		assistantMessage := domain.NewMessage(domain.RoleAssistant, fullContent)
		session.UpdateMessages(append(session.Messages, assistantMessage))
		if _, err := s.store.SaveSession(ctx, session); err != nil {
			return fmt.Errorf("failed to save session: %w", err)
		}
	}

	return nil
}

// resolveSession loads the thread's session, creating one (with a
// synthesized thread id when none was supplied) if it does not exist.
func (s *Service) resolveSession(ctx context.Context, threadID string) (*domain.ChatSession, error) {
	if threadID == "" {
		threadID = newThreadID()
		return domain.NewChatSession(threadID, nil), nil
	}

	existing, err := s.store.GetSessionByThreadID(ctx, threadID)
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	if existing != nil {
		return existing, nil
	}
	return domain.NewChatSession(threadID, nil), nil
}

func newThreadID() string {
	return fmt.Sprintf("thread_%d_%s", time.Now().UnixMilli(), uuid.New().String()[:8])
}
