package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is a single conversation turn entry.
// Ordering is significant: the full list is the context fed to the model.
type Message struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// NewMessage creates a message stamped with the current time.
func NewMessage(role, content string) Message {
	return Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ChatSession is a persisted conversation thread. At most one session
// exists per ThreadID; the store upserts on that key.
type ChatSession struct {
	ID       string    `json:"id"`
	ThreadID string    `json:"thread_id"`
	Messages []Message `json:"messages"`
	Ts       time.Time `json:"ts"`
}

// NewChatSession creates a session with a fresh id for the given thread.
func NewChatSession(threadID string, messages []Message) *ChatSession {
	if messages == nil {
		messages = []Message{}
	}
	return &ChatSession{
		ID:       uuid.New().String(),
		ThreadID: threadID,
		Messages: messages,
		Ts:       time.Now(),
	}
}

// UpdateMessages replaces the message log wholesale and refreshes Ts.
// The store does not diff; each save writes the full list.
func (s *ChatSession) UpdateMessages(messages []Message) {
	s.Messages = messages
	s.Ts = time.Now()
}
