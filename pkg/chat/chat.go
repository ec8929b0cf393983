package chat

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant" // the interrogated character
	RoleSystem    = "system"
)

// PartTypeText is the only part type consumed by the engine. Other
// part types are carried through untouched.
const PartTypeText = "text"

// Part is one content fragment of a turn.
type Part struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// TurnMetadata carries optional client-attached context on a turn.
type TurnMetadata struct {
	CharacterID string `json:"character_id,omitempty"`
}

// Turn is a single message in a conversation. The ID is the identity
// token downstream consumers use to detect a new turn.
type Turn struct {
	ID       string        `json:"id"`
	Role     string        `json:"role"`
	Parts    []Part        `json:"parts"`
	Metadata *TurnMetadata `json:"metadata,omitempty"`
}

// NewTurn creates a turn with a fresh identity token and a single
// text part.
func NewTurn(role, text string) Turn {
	return Turn{
		ID:    uuid.New().String(),
		Role:  role,
		Parts: []Part{{Type: PartTypeText, Text: text}},
	}
}

// Text returns the concatenation of all text parts, joined with a
// single space. This is the spoken text handed to speech synthesis.
func (t Turn) Text() string {
	var parts []string
	for _, p := range t.Parts {
		if p.Type == PartTypeText && p.Text != "" {
			parts = append(parts, p.Text)
		}
	}
	return strings.Join(parts, " ")
}

// Message is the provider wire format for a single chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// ToMessages converts turns to provider messages, dropping turns whose
// text content is empty.
func ToMessages(turns []Turn) []Message {
	out := make([]Message, 0, len(turns))
	for _, t := range turns {
		text := t.Text()
		if text == "" {
			continue
		}
		out = append(out, Message{Role: t.Role, Content: text})
	}
	return out
}

// Response is a complete (non-streamed) reply from the LLM.
type Response struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ErrorResponse is the JSON error envelope returned by all handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SpeechCharacter identifies the speaking character for voice selection.
type SpeechCharacter struct {
	Name string `json:"name"`
}

// SpeechRequest is the body of POST /v1/speech.
type SpeechRequest struct {
	Text      string           `json:"text"`
	Character *SpeechCharacter `json:"character,omitempty"`
}

// SpeechResponse is the success body of POST /v1/speech.
type SpeechResponse struct {
	Audio    string `json:"audio"` // base64-encoded audio payload
	MimeType string `json:"mimeType"`
}

func (sr *SpeechRequest) Validate() error {
	if strings.TrimSpace(sr.Text) == "" {
		return fmt.Errorf("text cannot be empty")
	}
	return nil
}
