package handlers

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

// SpeechHandler handles text-to-speech requests
type SpeechHandler struct {
	speechService services.SpeechService
	timeout       time.Duration
	logger        *slog.Logger
}

// NewSpeechHandler creates a new speech handler
func NewSpeechHandler(speechService services.SpeechService, timeout time.Duration, logger *slog.Logger) *SpeechHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &SpeechHandler{
		speechService: speechService,
		timeout:       timeout,
		logger:        logger,
	}
}

// ServeHTTP handles HTTP requests for speech synthesis
func (h *SpeechHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for speech endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request chat.SpeechRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid speech request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Text is required")
		return
	}

	if err := request.Validate(); err != nil {
		h.logger.Warn("Invalid speech request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Text is required")
		return
	}

	characterName := ""
	if request.Character != nil {
		characterName = request.Character.Name
	}

	h.logger.Info("Speech endpoint accessed",
		"character", characterName,
		"text_length", len(request.Text),
		"remote_addr", r.RemoteAddr)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	speech, err := h.speechService.Synthesize(ctx, request.Text, characterName)
	if err != nil {
		h.logger.Error("Error generating speech", "error", err, "character", characterName)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to generate speech")
		return
	}

	writeJSON(w, h.logger, http.StatusOK, chat.SpeechResponse{
		Audio:    base64.StdEncoding.EncodeToString(speech.Audio),
		MimeType: speech.MimeType,
	})
}
