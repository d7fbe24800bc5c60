// Package sse serializes payloads into Server-Sent-Events wire frames.
package sse

import (
	"encoding/json"
	"fmt"
	"time"
)

// FormatEvent serializes one payload into an SSE frame:
// "event: <type>\ndata: <json>\n\n". If the payload cannot be serialized,
// an error-typed frame describing the failure is produced instead.
func FormatEvent(eventType string, data any) string {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return FormatEvent("error", map[string]string{
			"message": "Failed to serialize data",
			"error":   err.Error(),
		})
	}
	return fmt.Sprintf("event: %s\ndata: %s\n\n", eventType, jsonData)
}

// FormatChunk formats one unit of incremental assistant text.
func FormatChunk(content string) string {
	return FormatEvent("message_chunk", map[string]string{
		"content":   content,
		"timestamp": timestamp(),
	})
}

// FormatComplete formats the end-of-stream frame.
func FormatComplete() string {
	return FormatEvent("done", map[string]string{
		"timestamp": timestamp(),
	})
}

// FormatError formats an error frame.
func FormatError(message string) string {
	return FormatEvent("error", map[string]string{
		"message":   message,
		"timestamp": timestamp(),
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}
