package ai

import (
	"context"
	"encoding/json"
	"fmt"

	"world-entity-demo/backend/internal/models"
)

// CompletionRequest is a single chat-completion call
type CompletionRequest struct {
	// Operation labels spans and metrics, e.g. "chat" or "entity"
	Operation   string
	Messages    []models.ChatMessage
	MaxTokens   int
	Temperature float64
	// JSONMode asks the model for a JSON object response
	JSONMode bool
}

// Completion is the first choice returned by the upstream
type Completion struct {
	Message models.ChatMessage
	// Empty is true when the upstream returned no choices at all
	Empty bool
}

// ChatCompleter is implemented by upstream LLM clients
type ChatCompleter interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
}

// UpstreamError is a non-2xx reply from the LLM API
type UpstreamError struct {
	StatusCode int
	// Payload is the body's "error" member. Nil when the body was not JSON or
	// the member was missing or empty.
	Payload json.RawMessage
	Cause   error
}

func (e *UpstreamError) Error() string {
	if len(e.Payload) > 0 {
		return fmt.Sprintf("upstream returned status %d: %s", e.StatusCode, e.Payload)
	}
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Cause
}
