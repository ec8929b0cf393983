package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/character"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func userTurn(text string) chat.Turn {
	return chat.NewTurn(chat.RoleUser, text)
}

// deltasFrom parses the SSE body and returns the concatenated
// text-delta payloads plus whether the [DONE] terminator was seen.
func deltasFrom(t *testing.T, body string) (string, bool) {
	t.Helper()
	var content strings.Builder
	var done bool
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		payload := strings.TrimPrefix(line, "data: ")
		if payload == "[DONE]" {
			done = true
			continue
		}
		var event streamEvent
		require.NoError(t, json.Unmarshal([]byte(payload), &event))
		if event.Type == "text-delta" {
			content.WriteString(event.Delta)
		}
	}
	return content.String(), done
}

func TestChatHandler_ServeHTTP(t *testing.T) {
	logger := testLogger()

	tests := []struct {
		name           string
		method         string
		body           interface{}
		mockSetup      func(*services.MockLLMAPI)
		expectedStatus int
		expectedError  string
		expectedText   string
	}{
		{
			name:   "successful streamed chat",
			method: http.MethodPost,
			body: ChatRequest{
				Messages:  []chat.Turn{userTurn("Did you eat the treats?")},
				Character: &character.Character{ID: "roxie"},
			},
			mockSetup: func(m *services.MockLLMAPI) {
				m.ChatStreamFunc = func(ctx context.Context, messages []chat.Message) (<-chan services.StreamChunk, error) {
					return services.StreamOf("I was ", "napping."), nil
				}
			},
			expectedStatus: http.StatusOK,
			expectedText:   "I was napping.",
		},
		{
			name:           "method not allowed",
			method:         http.MethodGet,
			body:           nil,
			mockSetup:      func(m *services.MockLLMAPI) {},
			expectedStatus: http.StatusMethodNotAllowed,
			expectedError:  "Method not allowed. Only POST is supported.",
		},
		{
			name:           "invalid JSON body",
			method:         http.MethodPost,
			body:           "invalid json",
			mockSetup:      func(m *services.MockLLMAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body. Expected JSON with 'messages' field.",
		},
		{
			name:           "empty messages",
			method:         http.MethodPost,
			body:           ChatRequest{},
			mockSetup:      func(m *services.MockLLMAPI) {},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Messages cannot be empty.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockLLM := services.NewMockLLMAPI()
			tt.mockSetup(mockLLM)
			handler := NewChatHandler(character.DefaultRegistry(), mockLLM, character.FishTreatCase, time.Second, logger)

			var bodyReader *bytes.Reader
			switch b := tt.body.(type) {
			case nil:
				bodyReader = bytes.NewReader(nil)
			case string:
				bodyReader = bytes.NewReader([]byte(b))
			default:
				data, err := json.Marshal(b)
				require.NoError(t, err)
				bodyReader = bytes.NewReader(data)
			}

			req := httptest.NewRequest(tt.method, "/v1/chat", bodyReader)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedError != "" {
				var errResp chat.ErrorResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
				assert.Equal(t, tt.expectedError, errResp.Error)
				return
			}

			assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
			content, done := deltasFrom(t, rec.Body.String())
			assert.Equal(t, tt.expectedText, content)
			assert.True(t, done)
		})
	}
}

func TestChatHandler_SystemPromptConditioning(t *testing.T) {
	mockLLM := services.NewMockLLMAPI()
	handler := NewChatHandler(character.DefaultRegistry(), mockLLM, character.FishTreatCase, time.Second, testLogger())

	body, err := json.Marshal(ChatRequest{
		Messages:  []chat.Turn{userTurn("Where were you?")},
		Character: &character.Character{ID: "johnny"},
	})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body)))
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, mockLLM.ChatStreamCalls, 1)
	msgs := mockLLM.ChatStreamCalls[0]
	require.NotEmpty(t, msgs)
	assert.Equal(t, chat.RoleSystem, msgs[0].Role)
	assert.Contains(t, msgs[0].Content, "Johnny")
	assert.NotContains(t, msgs[0].Content, "You are Roxie")
}

func TestChatHandler_CharacterResolution(t *testing.T) {
	registry := character.DefaultRegistry()
	handler := NewChatHandler(registry, services.NewMockLLMAPI(), character.FishTreatCase, time.Second, testLogger())

	tests := []struct {
		name     string
		request  ChatRequest
		expected string
	}{
		{
			name: "body character wins",
			request: ChatRequest{
				Messages:  []chat.Turn{userTurn("hi")},
				Character: &character.Character{ID: "roxie"},
			},
			expected: "roxie",
		},
		{
			name: "falls back to last message metadata",
			request: ChatRequest{
				Messages: []chat.Turn{
					{ID: "1", Role: chat.RoleUser, Parts: []chat.Part{{Type: chat.PartTypeText, Text: "hi"}}, Metadata: &chat.TurnMetadata{CharacterID: "jat"}},
				},
			},
			expected: "jat",
		},
		{
			name: "unknown everywhere falls back to default",
			request: ChatRequest{
				Messages: []chat.Turn{userTurn("hi")},
			},
			expected: character.Default().ID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := handler.resolveCharacter(tt.request)
			assert.Equal(t, tt.expected, c.ID)
		})
	}
}

func TestChatHandler_StreamError(t *testing.T) {
	mockLLM := services.NewMockLLMAPI()
	mockLLM.ChatStreamFunc = func(ctx context.Context, messages []chat.Message) (<-chan services.StreamChunk, error) {
		return services.StreamError(context.DeadlineExceeded), nil
	}
	handler := NewChatHandler(character.DefaultRegistry(), mockLLM, character.FishTreatCase, time.Second, testLogger())

	body, err := json.Marshal(ChatRequest{Messages: []chat.Turn{userTurn("hi")}})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/chat", bytes.NewReader(body)))

	// Headers were already streamed; the failure arrives as an error
	// event, not a [DONE] terminator.
	assert.Contains(t, rec.Body.String(), `"type":"error"`)
	_, done := deltasFrom(t, rec.Body.String())
	assert.False(t, done)
}
