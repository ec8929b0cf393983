package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

func TestToOpenAIMessages(t *testing.T) {
	messages := []chat.Message{
		{Role: chat.RoleSystem, Content: "You are Roxie."},
		{Role: chat.RoleUser, Content: "Did you eat the treats?"},
		{Role: chat.RoleAssistant, Content: "Absolutely not."},
	}

	converted := toOpenAIMessages(messages)
	require.Len(t, converted, 3)
	for i, m := range messages {
		assert.Equal(t, m.Role, converted[i].Role)
		assert.Equal(t, m.Content, converted[i].Content)
	}
}

func TestOpenAIService_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cmpl-1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"I was napping."},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewOpenAIServiceWithBaseURL("test-key", "gpt-4o-mini", server.URL, logger)

	resp, err := svc.Chat(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "Where were you?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "I was napping.", resp.Message)
}

func TestOpenAIService_ChatStream(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"id\":\"cmpl-1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"I was \"}}]}\n\n")
		fmt.Fprint(w, "data: {\"id\":\"cmpl-1\",\"object\":\"chat.completion.chunk\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"napping.\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewOpenAIServiceWithBaseURL("test-key", "gpt-4o-mini", server.URL, logger)

	chunks, err := svc.ChatStream(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "Where were you?"},
	})
	require.NoError(t, err)

	var content string
	var done bool
	for chunk := range chunks {
		require.NoError(t, chunk.Err)
		if chunk.Done {
			done = true
			continue
		}
		content += chunk.Content
	}

	assert.True(t, done)
	assert.Equal(t, "I was napping.", content)
}

func TestOpenAIService_ChatUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"message":"server overloaded","type":"server_error"}}`)
	}))
	defer server.Close()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewOpenAIServiceWithBaseURL("test-key", "gpt-4o-mini", server.URL, logger)

	_, err := svc.Chat(context.Background(), []chat.Message{
		{Role: chat.RoleUser, Content: "hello"},
	})
	require.Error(t, err)
}
