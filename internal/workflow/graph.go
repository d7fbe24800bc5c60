// Package workflow drives the LLM graph pipeline and normalizes its
// heterogeneous stream output into chat stream events.
package workflow

import (
	"context"
	"fmt"

	"github.com/xqin77/chatstream/internal/domain"
)

// Reserved node names marking the graph boundary.
const (
	StartNode = "__start__"
	EndNode   = "__end__"
)

// State is the graph execution state: the ordered message history.
type State struct {
	Messages []domain.Message
}

// RawChunk is an engine-emitted chunk. Its shape depends entirely on the
// configured stream mode; stream-mode strategies decode it.
type RawChunk any

// NodeFunc executes one graph node. It receives the current state and
// returns the messages to append to it.
type NodeFunc func(ctx context.Context, state State) ([]domain.Message, error)

// Graph is a mutable graph definition. Compile it before streaming.
type Graph struct {
	nodes map[string]NodeFunc
	edges map[string]string
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		nodes: make(map[string]NodeFunc),
		edges: make(map[string]string),
	}
}

// AddNode registers a named node.
func (g *Graph) AddNode(name string, fn NodeFunc) *Graph {
	g.nodes[name] = fn
	return g
}

// AddEdge connects two nodes. Use StartNode and EndNode for the boundary.
func (g *Graph) AddEdge(from, to string) *Graph {
	g.edges[from] = to
	return g
}

// Compile validates the graph and returns an immutable executable form.
func (g *Graph) Compile() (*CompiledGraph, error) {
	entry, ok := g.edges[StartNode]
	if !ok {
		return nil, fmt.Errorf("graph has no edge from %s", StartNode)
	}
	for from, to := range g.edges {
		if from != StartNode {
			if _, ok := g.nodes[from]; !ok {
				return nil, fmt.Errorf("edge references unknown node %q", from)
			}
		}
		if to != EndNode {
			if _, ok := g.nodes[to]; !ok {
				return nil, fmt.Errorf("edge references unknown node %q", to)
			}
		}
	}
	nodes := make(map[string]NodeFunc, len(g.nodes))
	for name, fn := range g.nodes {
		nodes[name] = fn
	}
	edges := make(map[string]string, len(g.edges))
	for from, to := range g.edges {
		edges[from] = to
	}
	return &CompiledGraph{nodes: nodes, edges: edges, entry: entry}, nil
}

// CompiledGraph is an immutable, executable graph. It is safe for
// concurrent use; each Stream call runs independently.
type CompiledGraph struct {
	nodes map[string]NodeFunc
	edges map[string]string
	entry string
}

// StreamOptions bounds one graph run.
type StreamOptions struct {
	Mode           domain.StreamMode
	RecursionLimit int
	ThreadID       string
	Subgraphs      bool
}

// Stream executes the graph from its entry node, calling emit with one raw
// chunk per step. The chunk shape follows the requested stream mode:
// updates yields per-node partial state, values yields full state
// snapshots, messages yields the step's new messages.
func (cg *CompiledGraph) Stream(ctx context.Context, state State, opts StreamOptions, emit func(RawChunk) error) error {
	current := cg.entry
	steps := 0

	for current != EndNode {
		if err := ctx.Err(); err != nil {
			return err
		}

		steps++
		if opts.RecursionLimit > 0 && steps > opts.RecursionLimit {
			return fmt.Errorf("recursion limit of %d reached", opts.RecursionLimit)
		}

		fn, ok := cg.nodes[current]
		if !ok {
			return fmt.Errorf("unknown node %q", current)
		}

		update, err := fn(ctx, state)
		if err != nil {
			return fmt.Errorf("node %q failed: %w", current, err)
		}
		state.Messages = append(state.Messages, update...)

		if err := emit(cg.chunkFor(opts.Mode, current, state, update)); err != nil {
			return err
		}

		next, ok := cg.edges[current]
		if !ok {
			return fmt.Errorf("node %q has no outgoing edge", current)
		}
		current = next
	}

	return nil
}

// chunkFor shapes one step's output per the requested stream mode.
func (cg *CompiledGraph) chunkFor(mode domain.StreamMode, node string, state State, update []domain.Message) RawChunk {
	switch mode {
	case domain.StreamModeValues:
		return map[string]any{"messages": messagesToRaw(state.Messages)}
	case domain.StreamModeMessages:
		return map[string]any{"messages": messagesToRaw(update)}
	default:
		// updates shape, also used for custom/debug which decode via the
		// updates strategy fallback.
		return map[string]any{node: map[string]any{"messages": messagesToRaw(update)}}
	}
}

func messagesToRaw(messages []domain.Message) []any {
	raw := make([]any, 0, len(messages))
	for _, m := range messages {
		raw = append(raw, map[string]any{
			"role":      m.Role,
			"content":   m.Content,
			"timestamp": m.Timestamp,
		})
	}
	return raw
}
