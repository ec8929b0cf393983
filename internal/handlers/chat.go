package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/character"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
	"github.com/whiskerworks/interrogation-engine/pkg/prompts"
)

// ChatRequest is the body of POST /v1/chat.
type ChatRequest struct {
	Messages  []chat.Turn          `json:"messages"`
	Character *character.Character `json:"character,omitempty"`
}

// ChatHandler is the stateless streaming chat endpoint. It composes the
// resolved character's system prompt, streams the LLM reply, and writes
// it as an SSE stream of text-delta events.
type ChatHandler struct {
	registry   *character.Registry
	llmService services.LLMService
	caseFile   character.CaseFile
	timeout    time.Duration
	logger     *slog.Logger
}

// NewChatHandler creates a new chat handler
func NewChatHandler(registry *character.Registry, llmService services.LLMService, caseFile character.CaseFile, timeout time.Duration, logger *slog.Logger) *ChatHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatHandler{
		registry:   registry,
		llmService: llmService,
		caseFile:   caseFile,
		timeout:    timeout,
		logger:     logger,
	}
}

// resolveCharacter picks the speaking character: the one named in the
// request body, else the one tagged on the most recent message, else
// the deterministic fallback.
func (h *ChatHandler) resolveCharacter(req ChatRequest) character.Character {
	if req.Character != nil && req.Character.ID != "" {
		if c, ok := h.registry.GetByID(req.Character.ID); ok {
			return c
		}
		return *req.Character
	}

	for i := len(req.Messages) - 1; i >= 0; i-- {
		if meta := req.Messages[i].Metadata; meta != nil && meta.CharacterID != "" {
			if c, ok := h.registry.GetByID(meta.CharacterID); ok {
				return c
			}
			break
		}
	}

	return character.Default()
}

// ServeHTTP handles HTTP requests for chat
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for chat endpoint",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var request ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid request body. Expected JSON with 'messages' field.")
		return
	}

	if len(request.Messages) == 0 {
		writeError(w, h.logger, http.StatusBadRequest, "Messages cannot be empty.")
		return
	}

	c := h.resolveCharacter(request)
	h.logger.Info("Chat endpoint accessed",
		"character_id", c.ID,
		"message_count", len(request.Messages),
		"remote_addr", r.RemoteAddr)

	messages := make([]chat.Message, 0, len(request.Messages)+1)
	messages = append(messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: prompts.Compose(c, h.caseFile),
	})
	messages = append(messages, chat.ToMessages(request.Messages)...)

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	chunks, err := h.llmService.ChatStream(ctx, messages)
	if err != nil {
		h.logger.Error("Error starting chat stream", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to generate response. Please try again.")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	flusher, _ := w.(http.Flusher)

	messageID := uuid.New().String()
	h.sendData(w, flusher, streamEvent{Type: "text-start", ID: messageID})

	for chunk := range chunks {
		if chunk.Err != nil {
			h.logger.Error("Chat stream failed mid-response", "error", chunk.Err)
			h.sendData(w, flusher, streamEvent{Type: "error", ErrorText: "Failed to generate response."})
			return
		}
		if chunk.Done {
			break
		}
		if chunk.Content == "" {
			continue
		}
		h.sendData(w, flusher, streamEvent{Type: "text-delta", ID: messageID, Delta: chunk.Content})
	}

	h.sendData(w, flusher, streamEvent{Type: "text-end", ID: messageID})
	h.sendData(w, flusher, streamEvent{Type: "finish"})
	if _, err := fmt.Fprint(w, "data: [DONE]\n\n"); err != nil {
		h.logger.Error("Failed to write stream terminator", "error", err)
	}
	if flusher != nil {
		flusher.Flush()
	}
}

// streamEvent is one line of the SSE chat wire format.
type streamEvent struct {
	Type      string `json:"type"`
	ID        string `json:"id,omitempty"`
	Delta     string `json:"delta,omitempty"`
	ErrorText string `json:"errorText,omitempty"`
}

func (h *ChatHandler) sendData(w http.ResponseWriter, flusher http.Flusher, event streamEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("Failed to marshal stream event", "error", err)
		return
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		h.logger.Error("Failed to write stream event", "error", err)
		return
	}
	if flusher != nil {
		flusher.Flush()
	}
}
