package workflow

import (
	"sort"

	"github.com/xqin77/chatstream/internal/domain"
)

// chunkStrategy decodes one raw engine chunk into at most one stream event.
// Absence of extractable content is a nil result, never an error.
type chunkStrategy func(chunk RawChunk) *domain.StreamEvent

// SupportedStreamModes lists the modes with a dedicated strategy, used for
// request validation. Unknown modes dispatch to the updates strategy.
func SupportedStreamModes() []domain.StreamMode {
	return []domain.StreamMode{
		domain.StreamModeValues,
		domain.StreamModeUpdates,
		domain.StreamModeMessages,
	}
}

// IsSupportedStreamMode reports whether mode has a dedicated strategy.
func IsSupportedStreamMode(mode domain.StreamMode) bool {
	for _, m := range SupportedStreamModes() {
		if mode == m {
			return true
		}
	}
	return false
}

// strategyForMode selects the decoding strategy for a stream mode.
// Unknown or unset modes fall back to the updates strategy.
func strategyForMode(mode domain.StreamMode) chunkStrategy {
	switch mode {
	case domain.StreamModeValues:
		return processValuesChunk
	case domain.StreamModeMessages:
		return processMessagesChunk
	default:
		return processUpdatesChunk
	}
}

// processValuesChunk handles complete state snapshots: the last message of
// the snapshot carries the step's output.
func processValuesChunk(chunk RawChunk) *domain.StreamEvent {
	state, ok := chunk.(map[string]any)
	if !ok {
		return nil
	}
	messages, ok := state["messages"].([]any)
	if !ok || len(messages) == 0 {
		return nil
	}

	content := messageContent(messages[len(messages)-1])
	if content == "" {
		return nil
	}

	event := domain.NewChunkEvent(content, "agent")
	return &event
}

// processUpdatesChunk handles per-node state updates. The chunk is either a
// node-keyed object or a [previousState, updates] pair, depending on engine
// version; both are accepted. Only the first node update carrying non-empty
// content produces an event, by policy: one strategy event per chunk.
func processUpdatesChunk(chunk RawChunk) *domain.StreamEvent {
	var updates map[string]any

	switch c := chunk.(type) {
	case map[string]any:
		updates = c
	case []any:
		if len(c) > 1 {
			if pair, ok := c[1].(map[string]any); ok {
				updates = pair
			}
		}
	}
	if updates == nil {
		return nil
	}

	nodes := make([]string, 0, len(updates))
	for node := range updates {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	for _, node := range nodes {
		nodeState, ok := updates[node].(map[string]any)
		if !ok {
			continue
		}
		messages, ok := nodeState["messages"].([]any)
		if !ok {
			continue
		}
		for _, message := range messages {
			if content := messageContent(message); content != "" {
				event := domain.NewChunkEvent(content, node)
				return &event
			}
		}
	}

	return nil
}

// processMessagesChunk handles flat message sequences: the first message
// with non-empty content is emitted.
func processMessagesChunk(chunk RawChunk) *domain.StreamEvent {
	state, ok := chunk.(map[string]any)
	if !ok {
		return nil
	}
	messages, ok := state["messages"].([]any)
	if !ok {
		return nil
	}

	for _, message := range messages {
		if content := messageContent(message); content != "" {
			event := domain.NewChunkEvent(content, "agent")
			return &event
		}
	}

	return nil
}

// messageContent resolves a message's content from either a direct content
// field or the nested kwargs.content encoding. Both message encodings occur
// in the wild depending on how the engine serialized the message.
func messageContent(message any) string {
	m, ok := message.(map[string]any)
	if !ok {
		return ""
	}
	if content, ok := m["content"].(string); ok && content != "" {
		return content
	}
	if kwargs, ok := m["kwargs"].(map[string]any); ok {
		if content, ok := kwargs["content"].(string); ok {
			return content
		}
	}
	return ""
}
