package workflow

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xqin77/chatstream/internal/domain"
)

func echoNode(ctx context.Context, state State) ([]domain.Message, error) {
	return []domain.Message{domain.NewMessage(domain.RoleAssistant, "echo")}, nil
}

func TestCompileRequiresStartEdge(t *testing.T) {
	_, err := NewGraph().AddNode("agent", echoNode).Compile()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), StartNode)
}

func TestCompileRejectsUnknownNodes(t *testing.T) {
	_, err := NewGraph().
		AddEdge(StartNode, "missing").
		Compile()

	assert.Error(t, err)
}

func TestStreamRespectsRecursionLimit(t *testing.T) {
	// A self-looping node never reaches the end; the step bound must stop it.
	graph, err := NewGraph().
		AddNode("loop", echoNode).
		AddEdge(StartNode, "loop").
		AddEdge("loop", "loop").
		Compile()
	assert.NoError(t, err)

	var chunks int
	err = graph.Stream(context.Background(), State{}, StreamOptions{
		Mode:           domain.StreamModeUpdates,
		RecursionLimit: 3,
	}, func(chunk RawChunk) error {
		chunks++
		return nil
	})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "recursion limit")
	assert.Equal(t, 3, chunks)
}

func TestStreamStopsOnCanceledContext(t *testing.T) {
	graph, err := NewGraph().
		AddNode("agent", echoNode).
		AddEdge(StartNode, "agent").
		AddEdge("agent", EndNode).
		Compile()
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = graph.Stream(ctx, State{}, StreamOptions{RecursionLimit: 10}, func(chunk RawChunk) error {
		t.Fatal("emit should not be called after cancellation")
		return nil
	})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestStreamEmitsModeShapedChunks(t *testing.T) {
	graph, err := NewGraph().
		AddNode("agent", echoNode).
		AddEdge(StartNode, "agent").
		AddEdge("agent", EndNode).
		Compile()
	assert.NoError(t, err)

	initial := State{Messages: []domain.Message{domain.NewMessage(domain.RoleUser, "hi")}}

	var updates []RawChunk
	err = graph.Stream(context.Background(), initial, StreamOptions{
		Mode:           domain.StreamModeUpdates,
		RecursionLimit: 10,
	}, func(chunk RawChunk) error {
		updates = append(updates, chunk)
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, updates, 1)

	nodeUpdate, ok := updates[0].(map[string]any)
	assert.True(t, ok)
	assert.Contains(t, nodeUpdate, "agent")

	var values []RawChunk
	err = graph.Stream(context.Background(), initial, StreamOptions{
		Mode:           domain.StreamModeValues,
		RecursionLimit: 10,
	}, func(chunk RawChunk) error {
		values = append(values, chunk)
		return nil
	})
	assert.NoError(t, err)
	assert.Len(t, values, 1)

	snapshot, ok := values[0].(map[string]any)
	assert.True(t, ok)
	messages, ok := snapshot["messages"].([]any)
	assert.True(t, ok)
	// Full state: the initial user message plus the node's response.
	assert.Len(t, messages, 2)
}
