package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiskerworks/interrogation-engine/internal/orchestrator"
	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/character"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
	"github.com/whiskerworks/interrogation-engine/pkg/session"
)

func newTestSessionHandler(llm services.LLMService) (*SessionHandler, *orchestrator.Orchestrator) {
	logger := testLogger()
	o := orchestrator.New(
		character.DefaultRegistry(),
		llm,
		services.NewMockSpeechService(),
		orchestrator.NewBroker(),
		character.FishTreatCase,
		orchestrator.Config{},
		logger,
	)
	return NewSessionHandler(o, logger), o
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data)))
	return rec
}

func TestSessionHandler_Switch(t *testing.T) {
	handler, _ := newTestSessionHandler(services.NewMockLLMAPI())

	rec := postJSON(t, handler, "/v1/session", SwitchRequest{CharacterID: "roxie"})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, "roxie", snap.CharacterID)
	assert.Equal(t, session.StatusIdle, snap.Status)
	assert.Empty(t, snap.Turns)
}

func TestSessionHandler_SwitchUnknownFallsBack(t *testing.T) {
	handler, _ := newTestSessionHandler(services.NewMockLLMAPI())

	rec := postJSON(t, handler, "/v1/session", SwitchRequest{CharacterID: "butler"})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, character.Default().ID, snap.CharacterID)
}

func TestSessionHandler_Chat(t *testing.T) {
	llm := services.NewMockLLMAPI()
	handler, o := newTestSessionHandler(llm)
	postJSON(t, handler, "/v1/session", SwitchRequest{CharacterID: "roxie"})

	rec := postJSON(t, handler, "/v1/session/chat", SessionChatRequest{Message: "Did you eat the treats?"})
	assert.Equal(t, http.StatusAccepted, rec.Code)

	o.Wait()
	snap := o.Snapshot()
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, session.StatusSpeaking, snap.Status)
}

func TestSessionHandler_ChatEmptyMessage(t *testing.T) {
	handler, _ := newTestSessionHandler(services.NewMockLLMAPI())

	rec := postJSON(t, handler, "/v1/session/chat", SessionChatRequest{Message: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionHandler_ChatBusyConflict(t *testing.T) {
	release := make(chan struct{})
	llm := services.NewMockLLMAPI()
	llm.ChatStreamFunc = func(ctx context.Context, messages []chat.Message) (<-chan services.StreamChunk, error) {
		chunks := make(chan services.StreamChunk, 1)
		go func() {
			<-release
			chunks <- services.StreamChunk{Done: true}
			close(chunks)
		}()
		return chunks, nil
	}
	handler, o := newTestSessionHandler(llm)
	postJSON(t, handler, "/v1/session", SwitchRequest{CharacterID: "johnny"})

	first := postJSON(t, handler, "/v1/session/chat", SessionChatRequest{Message: "first"})
	require.Equal(t, http.StatusAccepted, first.Code)

	second := postJSON(t, handler, "/v1/session/chat", SessionChatRequest{Message: "second"})
	assert.Equal(t, http.StatusConflict, second.Code)

	var errResp chat.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &errResp))
	assert.Equal(t, "A turn is already in progress.", errResp.Error)

	close(release)
	o.Wait()
}

func TestSessionHandler_Playback(t *testing.T) {
	handler, o := newTestSessionHandler(services.NewMockLLMAPI())
	postJSON(t, handler, "/v1/session", SwitchRequest{CharacterID: "roxie"})

	// Not speaking yet.
	rec := postJSON(t, handler, "/v1/session/playback", struct{}{})
	assert.Equal(t, http.StatusConflict, rec.Code)

	require.Equal(t, http.StatusAccepted,
		postJSON(t, handler, "/v1/session/chat", SessionChatRequest{Message: "Speak up."}).Code)
	o.Wait()
	require.Equal(t, session.StatusSpeaking, o.Snapshot().Status)

	rec = postJSON(t, handler, "/v1/session/playback", struct{}{})
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, session.StatusIdle, snap.Status)
}

func TestSessionHandler_GetSnapshot(t *testing.T) {
	handler, _ := newTestSessionHandler(services.NewMockLLMAPI())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/session", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var snap session.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &snap))
	assert.Equal(t, session.StatusIdle, snap.Status)
	assert.EqualValues(t, 1, snap.Generation)
}
