package services

import (
	"context"
	"sync"
)

// MockSpeechService is a mock implementation of SpeechService for testing
type MockSpeechService struct {
	SynthesizeFunc func(ctx context.Context, text string, characterName string) (*Speech, error)

	// Track calls for testing
	SynthesizeCalls []SynthesizeCall

	mu sync.Mutex
}

type SynthesizeCall struct {
	Text          string
	CharacterName string
}

// NewMockSpeechService creates a new mock speech service
func NewMockSpeechService() *MockSpeechService {
	return &MockSpeechService{
		SynthesizeCalls: make([]SynthesizeCall, 0),
	}
}

// Synthesize mocks speech synthesis. The default behavior returns a
// small fake MP3 payload.
func (m *MockSpeechService) Synthesize(ctx context.Context, text string, characterName string) (*Speech, error) {
	m.mu.Lock()
	m.SynthesizeCalls = append(m.SynthesizeCalls, SynthesizeCall{Text: text, CharacterName: characterName})
	fn := m.SynthesizeFunc
	m.mu.Unlock()

	if fn != nil {
		return fn(ctx, text, characterName)
	}
	return &Speech{Audio: []byte("mock-audio"), MimeType: "audio/mpeg"}, nil
}

// Calls returns a copy of the recorded synthesize calls.
func (m *MockSpeechService) Calls() []SynthesizeCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SynthesizeCall(nil), m.SynthesizeCalls...)
}
