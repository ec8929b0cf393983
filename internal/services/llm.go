package services

import (
	"context"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

// StreamChunk is one increment of a streamed completion. Content is
// appended to the growing reply; Done marks end-of-stream; Err, when
// set, terminates the stream as a failure.
type StreamChunk struct {
	Content string
	Done    bool
	Err     error
}

// LLMService defines the interface for interacting with the LLM API
type LLMService interface {
	// InitModel initializes the LLM model on startup
	InitModel(ctx context.Context, modelName string) error

	// Chat generates a complete chat response
	Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error)

	// ChatStream generates a chat response as an incremental token
	// stream. The returned channel is closed after the Done or Err
	// chunk is delivered.
	ChatStream(ctx context.Context, messages []chat.Message) (<-chan StreamChunk, error)
}
