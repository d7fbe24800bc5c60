package workflow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	llmadapter "github.com/xqin77/chatstream/internal/adapter/llm"
	"github.com/xqin77/chatstream/internal/config"
	"github.com/xqin77/chatstream/internal/domain"
)

func testConfig() *config.Config {
	return &config.Config{
		OpenAIAPIKey:          "test-key",
		DefaultModel:          "mock-model",
		MaxTokens:             100,
		Temperature:           0.7,
		DefaultRecursionLimit: 50,
		DefaultStreamMode:     "updates",
		StreamTimeout:         5 * time.Second,
	}
}

func newTestAdapter(t *testing.T) *ChatAdapter {
	t.Helper()
	adapter, err := NewChatAdapter(testConfig(), llmadapter.NewMockClient())
	if err != nil {
		t.Fatalf("NewChatAdapter failed: %v", err)
	}
	return adapter
}

func collectEvents(t *testing.T, events <-chan domain.StreamEvent) []domain.StreamEvent {
	t.Helper()
	var collected []domain.StreamEvent
	for ev := range events {
		collected = append(collected, ev)
	}
	return collected
}

func TestNewChatAdapterRequiresCredentials(t *testing.T) {
	cfg := testConfig()
	cfg.OpenAIAPIKey = ""

	_, err := NewChatAdapter(cfg, llmadapter.NewMockClient())

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "API key")
}

func TestStreamChatEnvelopeOrder(t *testing.T) {
	adapter := newTestAdapter(t)

	events, err := adapter.StreamChat(context.Background(),
		[]domain.Message{domain.NewMessage(domain.RoleUser, "hello")},
		domain.StreamConfig{StreamMode: domain.StreamModeUpdates})
	assert.NoError(t, err)

	collected := collectEvents(t, events)

	assert.GreaterOrEqual(t, len(collected), 3)
	assert.Equal(t, domain.StreamEventStart, collected[0].Event)
	assert.Equal(t, domain.StreamEventComplete, collected[len(collected)-1].Event)
	for _, ev := range collected[1 : len(collected)-1] {
		assert.Equal(t, domain.StreamEventChunk, ev.Event)
		assert.Equal(t, "agent", ev.Data.Node)
		assert.NotEmpty(t, ev.Data.Content)
	}
}

func TestStreamChatValuesMode(t *testing.T) {
	adapter := newTestAdapter(t)

	events, err := adapter.StreamChat(context.Background(),
		[]domain.Message{domain.NewMessage(domain.RoleUser, "hello")},
		domain.StreamConfig{StreamMode: domain.StreamModeValues})
	assert.NoError(t, err)

	collected := collectEvents(t, events)

	var chunks []domain.StreamEvent
	for _, ev := range collected {
		if ev.Event == domain.StreamEventChunk {
			chunks = append(chunks, ev)
		}
	}
	assert.NotEmpty(t, chunks)
	assert.Equal(t, "agent", chunks[0].Data.Node)
}

func TestStreamChatRejectsEmptyMessages(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.StreamChat(context.Background(), nil, domain.StreamConfig{})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least one message")
}

func TestStreamChatRejectsUnsupportedMode(t *testing.T) {
	adapter := newTestAdapter(t)

	_, err := adapter.StreamChat(context.Background(),
		[]domain.Message{domain.NewMessage(domain.RoleUser, "hello")},
		domain.StreamConfig{StreamMode: domain.StreamMode("bogus")})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

type failingLLM struct{}

func (f *failingLLM) CreateChatCompletion(ctx context.Context, req *llmadapter.ChatCompletionRequest) (*llmadapter.ChatCompletionResponse, error) {
	return nil, errors.New("boom")
}

func TestStreamChatReportsErrorsInBand(t *testing.T) {
	adapter, err := NewChatAdapter(testConfig(), &failingLLM{})
	assert.NoError(t, err)

	events, err := adapter.StreamChat(context.Background(),
		[]domain.Message{domain.NewMessage(domain.RoleUser, "hello")},
		domain.StreamConfig{})
	assert.NoError(t, err)

	collected := collectEvents(t, events)

	assert.Len(t, collected, 2)
	assert.Equal(t, domain.StreamEventStart, collected[0].Event)
	assert.Equal(t, domain.StreamEventError, collected[1].Event)
	assert.Contains(t, collected[1].Data.Message, "boom")
}

func TestConvertMessageRoles(t *testing.T) {
	adapter := newTestAdapter(t)

	human, err := adapter.ConvertMessage("Human", "hi")
	assert.NoError(t, err)
	user, err := adapter.ConvertMessage("user", "hi")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleUser, human.Role)
	assert.Equal(t, user.Role, human.Role)
	assert.Equal(t, "hi", human.Content)

	ai, err := adapter.ConvertMessage("AI", "ok")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleAssistant, ai.Role)

	system, err := adapter.ConvertMessage("system", "rules")
	assert.NoError(t, err)
	assert.Equal(t, domain.RoleSystem, system.Role)

	_, err = adapter.ConvertMessage("bogus", "x")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")

	_, err = adapter.ConvertMessage("user", "")
	assert.Error(t, err)
}
