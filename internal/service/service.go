// Package service implements the chat use-case layer.
package service

import (
	"context"

	"github.com/xqin77/chatstream/internal/config"
	"github.com/xqin77/chatstream/internal/domain"
	"github.com/xqin77/chatstream/internal/store"
	"github.com/xqin77/chatstream/policy"
)

// WorkflowAdapter is the contract the service requires from the chat
// workflow pipeline.
type WorkflowAdapter interface {
	// StreamChat runs the workflow over a message history and yields stream
	// events. Run failures surface as in-band error events.
	StreamChat(ctx context.Context, messages []domain.Message, cfg domain.StreamConfig) (<-chan domain.StreamEvent, error)

	// ConvertMessage maps a role string to the workflow's message representation.
	ConvertMessage(role, content string) (domain.Message, error)
}

// Service is the chat orchestration service.
type Service struct {
	store        store.Store
	workflow     WorkflowAdapter
	policyEngine *policy.Engine
	config       *config.Config
}

// New creates a new service. policyEngine may be nil, in which case no
// guardrail policy is applied.
func New(store store.Store, workflow WorkflowAdapter, policyEngine *policy.Engine, cfg *config.Config) *Service {
	return &Service{
		store:        store,
		workflow:     workflow,
		policyEngine: policyEngine,
		config:       cfg,
	}
}
