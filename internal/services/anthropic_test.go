package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

func TestNewAnthropicService(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-api-key", "claude-sonnet-4-20250514", log)

	if service.apiKey != "test-api-key" {
		t.Errorf("Expected API key test-api-key, got %s", service.apiKey)
	}
	if service.modelName != "claude-sonnet-4-20250514" {
		t.Errorf("Expected model name claude-sonnet-4-20250514, got %s", service.modelName)
	}
	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_InitModel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)

	if err := service.InitModel(context.Background(), "test-model"); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestAnthropicService_SplitMessages(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)

	tests := []struct {
		name              string
		messages          []chat.Message
		expectedSystem    string
		expectedRemaining int
	}{
		{
			name: "single system message",
			messages: []chat.Message{
				{Role: chat.RoleSystem, Content: "You are Roxie."},
				{Role: chat.RoleUser, Content: "Hello"},
				{Role: chat.RoleAssistant, Content: "Meow."},
			},
			expectedSystem:    "You are Roxie.",
			expectedRemaining: 2,
		},
		{
			name: "multiple system messages joined",
			messages: []chat.Message{
				{Role: chat.RoleSystem, Content: "First."},
				{Role: chat.RoleSystem, Content: "Second."},
				{Role: chat.RoleUser, Content: "Hello"},
			},
			expectedSystem:    "First.\n\nSecond.",
			expectedRemaining: 1,
		},
		{
			name: "no system message",
			messages: []chat.Message{
				{Role: chat.RoleUser, Content: "Hello"},
			},
			expectedSystem:    "",
			expectedRemaining: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			system, remaining := service.splitMessages(tt.messages)
			if system != tt.expectedSystem {
				t.Errorf("Expected system %q, got %q", tt.expectedSystem, system)
			}
			if len(remaining) != tt.expectedRemaining {
				t.Errorf("Expected %d non-system messages, got %d", tt.expectedRemaining, len(remaining))
			}
		})
	}
}

func TestAnthropicService_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("Expected x-api-key header, got %q", r.Header.Get("x-api-key"))
		}

		var req AnthropicChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Failed to decode request: %v", err)
		}
		if req.System == "" {
			t.Error("Expected system prompt to be set")
		}

		resp := AnthropicChatResponse{
			Content: []AnthropicContentBlock{
				{Type: "text", Text: "I was napping. How dare you."},
			},
		}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("Failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)
	service.baseURL = server.URL

	resp, err := service.Chat(context.Background(), []chat.Message{
		{Role: chat.RoleSystem, Content: "You are Roxie."},
		{Role: chat.RoleUser, Content: "Did you eat the treats?"},
	})
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if resp.Message != "I was napping. How dare you." {
		t.Errorf("Unexpected message: %q", resp.Message)
	}
}

func TestAnthropicService_ChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: message_start\ndata: {\"type\":\"message_start\"}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"I was \"}}\n\n")
		fmt.Fprint(w, "event: content_block_delta\ndata: {\"type\":\"content_block_delta\",\"delta\":{\"type\":\"text_delta\",\"text\":\"napping.\"}}\n\n")
		fmt.Fprint(w, "event: message_stop\ndata: {\"type\":\"message_stop\"}\n\n")
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)
	service.baseURL = server.URL

	chunks, err := service.ChatStream(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "Did you eat the treats?"},
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	var content string
	var done bool
	for chunk := range chunks {
		if chunk.Err != nil {
			t.Fatalf("Unexpected stream error: %v", chunk.Err)
		}
		if chunk.Done {
			done = true
			continue
		}
		content += chunk.Content
	}

	if !done {
		t.Error("Expected a Done chunk")
	}
	if content != "I was napping." {
		t.Errorf("Unexpected streamed content: %q", content)
	}
}

func TestAnthropicService_ChatStream_Error(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "event: error\ndata: {\"type\":\"error\",\"error\":{\"type\":\"overloaded_error\",\"message\":\"Overloaded\"}}\n\n")
	}))
	defer server.Close()

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)
	service.baseURL = server.URL

	chunks, err := service.ChatStream(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "hello"},
	})
	if err != nil {
		t.Fatalf("ChatStream failed: %v", err)
	}

	var streamErr error
	for chunk := range chunks {
		if chunk.Err != nil {
			streamErr = chunk.Err
		}
	}

	if streamErr == nil {
		t.Fatal("Expected a stream error chunk")
	}
}
