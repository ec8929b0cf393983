package services

import (
	"context"
	"strings"
)

// Speech is a synthesized utterance.
type Speech struct {
	Audio    []byte // encoded audio payload
	MimeType string
}

// SpeechService defines the interface for text-to-speech synthesis
type SpeechService interface {
	// Synthesize renders the text in the named character's voice.
	// Failure is a distinct error, never an empty Speech.
	Synthesize(ctx context.Context, text string, characterName string) (*Speech, error)
}

// DefaultVoiceID is used when a character name has no mapped voice.
const DefaultVoiceID = "Z7RrOqZFTyLpIlzCgfsp" // Adam

// characterVoices maps lowercase character names to ElevenLabs voice IDs.
var characterVoices = map[string]string{
	"roxie":  "21m00Tcm4TlvDq8ikWAM", // Rachel
	"jat":    "AZnzlk1XvdvUeBnXmlld", // Domi
	"johnny": "EXAVITQu4vr4xnSDxMaL", // Bella
}

// VoiceFor selects the voice for a character name. Matching is
// case-insensitive; unrecognized names fall back to DefaultVoiceID.
func VoiceFor(characterName string) string {
	if voice, ok := characterVoices[strings.ToLower(strings.TrimSpace(characterName))]; ok {
		return voice
	}
	return DefaultVoiceID
}
