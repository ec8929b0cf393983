package session

import (
	"errors"
	"strings"
	"sync"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

// Status is the turn-pipeline state of the live session.
type Status string

const (
	StatusIdle               Status = "idle"
	StatusAwaitingCompletion Status = "awaiting_completion"
	StatusSpeaking           Status = "speaking"
)

var (
	// ErrBusy is returned when input arrives while a turn is in flight.
	ErrBusy = errors.New("session is busy")
	// ErrEmptyInput is returned for empty or whitespace-only input.
	ErrEmptyInput = errors.New("input cannot be empty")
)

// Session is the mutable conversational state scoped to one active
// character. Turns are kept in insertion order and never reordered.
type Session struct {
	CharacterID string      `json:"character_id"`
	Generation  uint64      `json:"generation"`
	Status      Status      `json:"status"`
	Turns       []chat.Turn `json:"turns"`
}

// Manager owns the single live session. The generation counter is the
// sole authority for discarding stale asynchronous results: every
// mutation takes the generation captured when the work started and is
// silently rejected on mismatch.
type Manager struct {
	mu      sync.Mutex
	current Session
}

// NewManager creates a manager with an empty idle session bound to the
// given character.
func NewManager(characterID string) *Manager {
	return &Manager{
		current: Session{
			CharacterID: characterID,
			Generation:  1,
			Status:      StatusIdle,
		},
	}
}

// Switch discards the current session unconditionally and starts a
// fresh one for the new character: empty history, idle status,
// incremented generation. In-flight work for the old generation is
// orphaned; its eventual results fail the generation check.
func (m *Manager) Switch(characterID string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.current = Session{
		CharacterID: characterID,
		Generation:  m.current.Generation + 1,
		Status:      StatusIdle,
	}
	return m.current.Generation
}

// Snapshot returns a copy of the live session, including a copy of the
// turn history.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.current
	out.Turns = append([]chat.Turn(nil), m.current.Turns...)
	return out
}

// BeginTurn validates and appends a user turn, transitioning the
// session to awaiting_completion. It returns the generation token the
// asynchronous pipeline must carry, and the appended turn.
func (m *Manager) BeginTurn(text string) (uint64, chat.Turn, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.current.Status != StatusIdle {
		return 0, chat.Turn{}, ErrBusy
	}
	if strings.TrimSpace(text) == "" {
		return 0, chat.Turn{}, ErrEmptyInput
	}

	turn := chat.NewTurn(chat.RoleUser, text)
	m.current.Turns = append(m.current.Turns, turn)
	m.current.Status = StatusAwaitingCompletion
	return m.current.Generation, turn, nil
}

// CompleteTurn appends the assistant turn for the given generation and
// moves the session to speaking (audio ready) or idle (no audio).
// Returns false when the generation is stale; the session is untouched.
func (m *Manager) CompleteTurn(gen uint64, turn chat.Turn, speaking bool) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.current.Generation {
		return false
	}
	m.current.Turns = append(m.current.Turns, turn)
	if speaking {
		m.current.Status = StatusSpeaking
	} else {
		m.current.Status = StatusIdle
	}
	return true
}

// FailTurn returns the session to idle after an upstream failure. The
// user turn stays in history so the input is retry-eligible. Returns
// false when the generation is stale.
func (m *Manager) FailTurn(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.current.Generation {
		return false
	}
	m.current.Status = StatusIdle
	return true
}

// PlaybackDone moves speaking back to idle once audio playback has
// finished. Returns false when the generation is stale or the session
// is not speaking.
func (m *Manager) PlaybackDone(gen uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gen != m.current.Generation || m.current.Status != StatusSpeaking {
		return false
	}
	m.current.Status = StatusIdle
	return true
}
