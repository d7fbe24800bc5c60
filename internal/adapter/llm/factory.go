package llm

import (
	"log"
	"os"
	"time"
)

const (
	// EnvChatstreamMode is the environment variable name for mode selection.
	EnvChatstreamMode = "CHATSTREAM_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewLLMClient creates an LLM client based on the CHATSTREAM_MODE environment
// variable. If CHATSTREAM_MODE=MOCK, returns a MockClient; otherwise returns
// a real Client.
func NewLLMClient(baseURL, apiKey string, timeout time.Duration) LLMClient {
	mode := os.Getenv(EnvChatstreamMode)

	if mode == ModeMock {
		log.Println("CHATSTREAM_MODE=MOCK detected, using mock LLM client")
		return NewMockClient()
	}

	return NewClient(baseURL, apiKey, timeout)
}

// IsMockMode reports whether the mock LLM client is selected.
func IsMockMode() bool {
	return os.Getenv(EnvChatstreamMode) == ModeMock
}
