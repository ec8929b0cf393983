package services

import (
	"context"
	"sync"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

// MockLLMAPI is a mock implementation of LLMService for testing
type MockLLMAPI struct {
	InitModelFunc  func(ctx context.Context, modelName string) error
	ChatFunc       func(ctx context.Context, messages []chat.Message) (*chat.Response, error)
	ChatStreamFunc func(ctx context.Context, messages []chat.Message) (<-chan StreamChunk, error)

	// Track calls for testing
	InitModelCalls  []string
	ChatCalls       [][]chat.Message
	ChatStreamCalls [][]chat.Message

	mu sync.Mutex // protects all fields above
}

// NewMockLLMAPI creates a new mock LLM service
func NewMockLLMAPI() *MockLLMAPI {
	return &MockLLMAPI{
		InitModelCalls:  make([]string, 0),
		ChatCalls:       make([][]chat.Message, 0),
		ChatStreamCalls: make([][]chat.Message, 0),
	}
}

// InitModel mocks model initialization
func (m *MockLLMAPI) InitModel(ctx context.Context, modelName string) error {
	m.mu.Lock()
	m.InitModelCalls = append(m.InitModelCalls, modelName)
	fn := m.InitModelFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, modelName)
	}
	return nil
}

// Chat mocks a complete chat response
func (m *MockLLMAPI) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	m.mu.Lock()
	m.ChatCalls = append(m.ChatCalls, messages)
	fn := m.ChatFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}
	return &chat.Response{Message: "mock response"}, nil
}

// ChatStream mocks a streamed chat response. The default behavior
// streams "mock response" as a single chunk.
func (m *MockLLMAPI) ChatStream(ctx context.Context, messages []chat.Message) (<-chan StreamChunk, error) {
	m.mu.Lock()
	m.ChatStreamCalls = append(m.ChatStreamCalls, messages)
	fn := m.ChatStreamFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, messages)
	}

	chunks := make(chan StreamChunk, 2)
	chunks <- StreamChunk{Content: "mock response"}
	chunks <- StreamChunk{Done: true}
	close(chunks)
	return chunks, nil
}

// StreamOf is a test helper that builds a closed chunk channel
// delivering the given texts followed by a Done chunk.
func StreamOf(texts ...string) <-chan StreamChunk {
	chunks := make(chan StreamChunk, len(texts)+1)
	for _, t := range texts {
		chunks <- StreamChunk{Content: t}
	}
	chunks <- StreamChunk{Done: true}
	close(chunks)
	return chunks
}

// StreamError is a test helper that builds a closed chunk channel
// terminating in the given error.
func StreamError(err error) <-chan StreamChunk {
	chunks := make(chan StreamChunk, 1)
	chunks <- StreamChunk{Err: err}
	close(chunks)
	return chunks
}
