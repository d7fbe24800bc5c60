package domain

import "encoding/json"

// StreamChatRequest is the envelope-level streaming request: a prepared
// message history plus run configuration.
type StreamChatRequest struct {
	Messages []Message    `json:"messages"`
	Config   StreamConfig `json:"config"`
}

// LegacyStreamChatRequest is the turn-level streaming request served by
// POST /chat/stream. StreamMode accepts either a single mode name or an
// array of mode names (first element wins), matching older clients.
type LegacyStreamChatRequest struct {
	ThreadID       string         `json:"threadId,omitempty"`
	Message        string         `json:"message"`
	StreamMode     StreamModeList `json:"streamMode,omitempty"`
	Subgraphs      bool           `json:"subgraphs,omitempty"`
	RecursionLimit int            `json:"recursionLimit,omitempty"`
}

// StreamModeList accepts either a JSON string or an array of strings.
// Older clients send a bare mode name; newer ones send an array.
type StreamModeList []string

// UnmarshalJSON implements json.Unmarshaler.
func (l *StreamModeList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StreamModeList{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*l = StreamModeList(many)
	return nil
}

// First returns the first mode name, or the empty string when unset.
func (l StreamModeList) First() string {
	if len(l) == 0 {
		return ""
	}
	return l[0]
}

// PersistSessionRequest bulk-persists a session, bypassing the workflow.
type PersistSessionRequest struct {
	ThreadID string    `json:"threadId"`
	Messages []Message `json:"messages"`
}

// PersistSessionResponse reports the outcome of a bulk persist. Failure is
// reported in-body via Success, not via HTTP status.
type PersistSessionResponse struct {
	Success   bool   `json:"success"`
	ID        string `json:"id"`
	ThreadID  string `json:"threadId"`
	Timestamp string `json:"timestamp"`
}
