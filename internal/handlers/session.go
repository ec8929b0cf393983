package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/whiskerworks/interrogation-engine/internal/orchestrator"
	"github.com/whiskerworks/interrogation-engine/pkg/session"
)

// SwitchRequest is the body of POST /v1/session.
type SwitchRequest struct {
	CharacterID string `json:"character_id"`
}

// SessionChatRequest is the body of POST /v1/session/chat.
type SessionChatRequest struct {
	Message string `json:"message"`
}

// SessionHandler exposes the live interrogation session over HTTP.
//
//	GET  /v1/session           current session snapshot
//	POST /v1/session           switch to a character (hard reset)
//	POST /v1/session/chat      submit user input (202, or 409 when busy)
//	POST /v1/session/playback  mark audio playback finished
type SessionHandler struct {
	orchestrator *orchestrator.Orchestrator
	logger       *slog.Logger
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(o *orchestrator.Orchestrator, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		orchestrator: o,
		logger:       logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimSuffix(r.URL.Path, "/")
	switch {
	case strings.HasSuffix(path, "/chat"):
		h.handleChat(w, r)
	case strings.HasSuffix(path, "/playback"):
		h.handlePlayback(w, r)
	default:
		h.handleSession(w, r)
	}
}

func (h *SessionHandler) handleSession(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, h.logger, http.StatusOK, h.orchestrator.Snapshot())

	case http.MethodPost:
		var request SwitchRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			h.logger.Warn("Invalid session request body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'character_id' field.")
			return
		}

		c := h.orchestrator.SwitchCharacter(request.CharacterID)
		h.logger.Info("Session switch requested",
			"requested_id", request.CharacterID,
			"resolved_id", c.ID)
		writeJSON(w, h.logger, http.StatusOK, h.orchestrator.Snapshot())

	default:
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed.")
	}
}

func (h *SessionHandler) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request SessionChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid session chat body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'message' field.")
		return
	}

	err := h.orchestrator.SubmitUserInput(r.Context(), request.Message)
	switch {
	case errors.Is(err, session.ErrBusy):
		writeError(w, h.logger, http.StatusConflict, "A turn is already in progress.")
	case errors.Is(err, session.ErrEmptyInput):
		writeError(w, h.logger, http.StatusBadRequest, "Message cannot be empty.")
	case err != nil:
		h.logger.Error("Error submitting user input", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to submit message.")
	default:
		writeJSON(w, h.logger, http.StatusAccepted, h.orchestrator.Snapshot())
	}
}

func (h *SessionHandler) handlePlayback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	if !h.orchestrator.PlaybackComplete() {
		writeError(w, h.logger, http.StatusConflict, "Session is not speaking.")
		return
	}
	writeJSON(w, h.logger, http.StatusOK, h.orchestrator.Snapshot())
}
