package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/xqin77/chatstream/internal/adapter/llm"
	"github.com/xqin77/chatstream/internal/config"
	"github.com/xqin77/chatstream/internal/domain"
)

// ChatAdapter owns the compiled chat workflow graph and the LLM client.
// It is constructed once at startup and shared across requests; the graph
// and client are immutable after construction.
type ChatAdapter struct {
	cfg   *config.Config
	llm   llm.LLMClient
	graph *CompiledGraph
}

// NewChatAdapter builds and compiles the chat workflow graph. Missing model
// credentials are a fatal construction error, not a per-request error.
func NewChatAdapter(cfg *config.Config, client llm.LLMClient) (*ChatAdapter, error) {
	if cfg.OpenAIAPIKey == "" && !llm.IsMockMode() {
		return nil, fmt.Errorf("llm configuration error: OpenAI API key is required but not configured")
	}

	a := &ChatAdapter{cfg: cfg, llm: client}

	graph, err := NewGraph().
		AddNode("agent", a.agentNode).
		AddEdge(StartNode, "agent").
		AddEdge("agent", EndNode).
		Compile()
	if err != nil {
		return nil, fmt.Errorf("failed to build chat workflow graph: %w", err)
	}
	a.graph = graph

	return a, nil
}

// agentNode invokes the language model with the full message history and
// appends its response to the state.
func (a *ChatAdapter) agentNode(ctx context.Context, state State) ([]domain.Message, error) {
	if len(state.Messages) == 0 {
		return nil, fmt.Errorf("no messages provided to chat node")
	}

	messages := make([]llm.ChatMessage, 0, len(state.Messages))
	for _, m := range state.Messages {
		messages = append(messages, llm.ChatMessage{Role: m.Role, Content: m.Content})
	}

	temperature := a.cfg.Temperature
	maxTokens := a.cfg.MaxTokens
	resp, err := a.llm.CreateChatCompletion(ctx, &llm.ChatCompletionRequest{
		Model:       a.cfg.DefaultModel,
		Messages:    messages,
		Temperature: &temperature,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("llm invocation failed: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message == nil {
		return nil, fmt.Errorf("llm returned no choices")
	}

	return []domain.Message{domain.NewMessage(domain.RoleAssistant, resp.Choices[0].Message.Content)}, nil
}

// StreamChat runs the workflow over the given message history and returns a
// channel of stream events. Validation failures are returned synchronously
// before any engine interaction; run failures surface as one in-band error
// event, after which the channel closes. The channel always closes.
func (a *ChatAdapter) StreamChat(ctx context.Context, messages []domain.Message, cfg domain.StreamConfig) (<-chan domain.StreamEvent, error) {
	if len(messages) == 0 {
		return nil, fmt.Errorf("chat workflow error: at least one message is required")
	}
	if cfg.StreamMode != "" && !IsSupportedStreamMode(cfg.StreamMode) {
		return nil, fmt.Errorf("stream processing error: unsupported stream mode: %s", cfg.StreamMode)
	}

	mode := cfg.StreamMode
	if mode == "" {
		mode = domain.StreamMode(a.cfg.DefaultStreamMode)
	}
	strategy := strategyForMode(mode)

	opts := StreamOptions{
		Mode:           mode,
		RecursionLimit: cfg.RecursionLimit,
		ThreadID:       cfg.ThreadID,
		Subgraphs:      cfg.Subgraphs,
	}
	if opts.RecursionLimit == 0 {
		opts.RecursionLimit = a.cfg.DefaultRecursionLimit
	}

	events := make(chan domain.StreamEvent)

	go func() {
		defer close(events)

		runCtx := ctx
		if a.cfg.StreamTimeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(ctx, a.cfg.StreamTimeout)
			defer cancel()
		}

		emit := func(ev domain.StreamEvent) bool {
			select {
			case events <- ev:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit(domain.NewStartEvent()) {
			return
		}

		err := a.graph.Stream(runCtx, State{Messages: messages}, opts, func(chunk RawChunk) error {
			if ev := strategy(chunk); ev != nil {
				if !emit(*ev) {
					return ctx.Err()
				}
			}
			return nil
		})
		if err != nil {
			emit(domain.NewErrorEvent(err.Error()))
			return
		}

		emit(domain.NewCompleteEvent())
	}()

	return events, nil
}

// ConvertMessage maps a role string to the workflow's message representation.
// Role matching is case-insensitive; human and ai are accepted as aliases
// for user and assistant.
func (a *ChatAdapter) ConvertMessage(role, content string) (domain.Message, error) {
	if role == "" || content == "" {
		return domain.Message{}, fmt.Errorf("chat workflow error: role and content are required for message conversion")
	}

	switch strings.ToLower(role) {
	case "user", "human":
		return domain.NewMessage(domain.RoleUser, content), nil
	case "assistant", "ai":
		return domain.NewMessage(domain.RoleAssistant, content), nil
	case "system":
		return domain.NewMessage(domain.RoleSystem, content), nil
	default:
		return domain.Message{}, fmt.Errorf("chat workflow error: unsupported message role: %s", role)
	}
}
