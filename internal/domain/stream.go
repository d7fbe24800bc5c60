package domain

import "time"

// StreamEventType identifies a stream event envelope kind.
type StreamEventType string

// Stream event types emitted by the chat workflow.
const (
	StreamEventStart    StreamEventType = "start"
	StreamEventChunk    StreamEventType = "chunk"
	StreamEventComplete StreamEventType = "complete"
	StreamEventError    StreamEventType = "error"
)

// StreamEventData is the payload of a stream event. Which fields are set
// depends on the event type.
type StreamEventData struct {
	Content       string `json:"content,omitempty"`
	Node          string `json:"node,omitempty"`
	FinalResponse string `json:"finalResponse,omitempty"`
	Message       string `json:"message,omitempty"`
	Timestamp     string `json:"timestamp"`
}

// StreamEvent is the normalized envelope carried between the workflow
// engine and the transport layer. It is transient and never persisted;
// chunk content feeds ChatSession messages instead.
type StreamEvent struct {
	Event StreamEventType `json:"event"`
	Data  StreamEventData `json:"data"`
}

func eventTimestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// NewStartEvent marks the beginning of a workflow run.
func NewStartEvent() StreamEvent {
	return StreamEvent{
		Event: StreamEventStart,
		Data:  StreamEventData{Timestamp: eventTimestamp()},
	}
}

// NewChunkEvent carries one unit of incremental assistant text.
func NewChunkEvent(content, node string) StreamEvent {
	return StreamEvent{
		Event: StreamEventChunk,
		Data: StreamEventData{
			Content:   content,
			Node:      node,
			Timestamp: eventTimestamp(),
		},
	}
}

// NewCompleteEvent signals normal end-of-turn.
func NewCompleteEvent() StreamEvent {
	return StreamEvent{
		Event: StreamEventComplete,
		Data:  StreamEventData{Timestamp: eventTimestamp()},
	}
}

// NewErrorEvent reports a run failure in-band.
func NewErrorEvent(message string) StreamEvent {
	return StreamEvent{
		Event: StreamEventError,
		Data: StreamEventData{
			Message:   message,
			Timestamp: eventTimestamp(),
		},
	}
}

// StreamMode selects the wire shape the workflow engine uses to emit
// incremental execution state.
type StreamMode string

// Supported stream modes.
const (
	StreamModeValues   StreamMode = "values"
	StreamModeUpdates  StreamMode = "updates"
	StreamModeMessages StreamMode = "messages"
	StreamModeCustom   StreamMode = "custom"
	StreamModeDebug    StreamMode = "debug"
)

// StreamConfig bounds and shapes one workflow run.
type StreamConfig struct {
	ThreadID       string     `json:"thread_id,omitempty"`
	RecursionLimit int        `json:"recursion_limit,omitempty"`
	StreamMode     StreamMode `json:"stream_mode,omitempty"`
	Subgraphs      bool       `json:"subgraphs,omitempty"`
}
