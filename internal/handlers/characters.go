package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/whiskerworks/interrogation-engine/pkg/character"
)

// PublicCharacter is the client-facing projection of a catalog record.
// Prompt modifiers stay server-side.
type PublicCharacter struct {
	ID             string                          `json:"id"`
	Name           string                          `json:"name"`
	Role           character.Role                  `json:"role"`
	Status         character.Status                `json:"status"`
	Description    string                          `json:"description"`
	Age            string                          `json:"age,omitempty"`
	Species        string                          `json:"species"`
	Image          string                          `json:"image"`
	PrisonerNumber string                          `json:"prisoner_number,omitempty"`
	Personality    character.Personality           `json:"personality"`
	Evidence       []character.Evidence            `json:"evidence"`
	Relationships  []character.Relationship        `json:"relationships"`
	Alibi          string                          `json:"alibi,omitempty"`
	Motive         string                          `json:"motive,omitempty"`
	LastSeen       string                          `json:"last_seen,omitempty"`
	Notes          []string                        `json:"notes"`
	Progress       character.InterrogationProgress `json:"interrogation_progress"`
}

func toPublic(c character.Character) PublicCharacter {
	return PublicCharacter{
		ID:             c.ID,
		Name:           c.Name,
		Role:           c.Role,
		Status:         c.Status,
		Description:    c.Description,
		Age:            c.Age,
		Species:        c.Species,
		Image:          c.Image,
		PrisonerNumber: c.PrisonerNumber,
		Personality:    c.Personality,
		Evidence:       c.Evidence,
		Relationships:  c.Relationships,
		Alibi:          c.Alibi,
		Motive:         c.Motive,
		LastSeen:       c.LastSeen,
		Notes:          c.Notes,
		Progress:       c.Progress,
	}
}

// CharactersHandler serves the character catalog.
// GET /v1/characters lists every character; GET /v1/characters/{id}
// fetches one.
type CharactersHandler struct {
	registry *character.Registry
	logger   *slog.Logger
}

// NewCharactersHandler creates a new characters handler
func NewCharactersHandler(registry *character.Registry, logger *slog.Logger) *CharactersHandler {
	return &CharactersHandler{
		registry: registry,
		logger:   logger,
	}
}

func (h *CharactersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.logger.Warn("Method not allowed for characters endpoint",
			"method", r.Method,
			"path", r.URL.Path)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only GET is supported.")
		return
	}

	// Expected: /v1/characters or /v1/characters/{id}
	pathParts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	switch len(pathParts) {
	case 2:
		all := h.registry.All()
		out := make([]PublicCharacter, 0, len(all))
		for _, c := range all {
			out = append(out, toPublic(c))
		}
		writeJSON(w, h.logger, http.StatusOK, out)

	case 3:
		id := pathParts[2]
		c, ok := h.registry.GetByID(id)
		if !ok {
			writeError(w, h.logger, http.StatusNotFound, "Character not found")
			return
		}
		writeJSON(w, h.logger, http.StatusOK, toPublic(c))

	default:
		writeError(w, h.logger, http.StatusBadRequest, "Invalid path. Expected /v1/characters or /v1/characters/{id}")
	}
}
