package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

// writeJSON encodes v to the response with the given status code.
func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding response", "error", err)
	}
}

// writeError writes the standard JSON error envelope.
func writeError(w http.ResponseWriter, logger *slog.Logger, status int, msg string) {
	writeJSON(w, logger, status, chat.ErrorResponse{Error: msg})
}
