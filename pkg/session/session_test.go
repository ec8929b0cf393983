package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

func TestManager_BeginTurn(t *testing.T) {
	m := NewManager("roxie")

	gen, turn, err := m.BeginTurn("Did you eat the treats?")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), gen)
	assert.Equal(t, chat.RoleUser, turn.Role)
	assert.Equal(t, "Did you eat the treats?", turn.Text())

	snap := m.Snapshot()
	assert.Equal(t, StatusAwaitingCompletion, snap.Status)
	require.Len(t, snap.Turns, 1)
}

func TestManager_BeginTurn_RejectsWhileBusy(t *testing.T) {
	m := NewManager("roxie")

	_, _, err := m.BeginTurn("first question")
	require.NoError(t, err)

	_, _, err = m.BeginTurn("second question")
	assert.ErrorIs(t, err, ErrBusy)

	// Rejection must not mutate history
	assert.Len(t, m.Snapshot().Turns, 1)
}

func TestManager_BeginTurn_RejectsEmptyInput(t *testing.T) {
	m := NewManager("roxie")

	for _, input := range []string{"", "   ", "\n\t"} {
		_, _, err := m.BeginTurn(input)
		assert.ErrorIs(t, err, ErrEmptyInput)
	}
	assert.Empty(t, m.Snapshot().Turns)
}

func TestManager_CompleteTurn(t *testing.T) {
	m := NewManager("roxie")
	gen, _, err := m.BeginTurn("Where were you?")
	require.NoError(t, err)

	reply := chat.NewTurn(chat.RoleAssistant, "Napping, obviously.")
	ok := m.CompleteTurn(gen, reply, true)
	require.True(t, ok)

	snap := m.Snapshot()
	assert.Equal(t, StatusSpeaking, snap.Status)
	require.Len(t, snap.Turns, 2)
	assert.Equal(t, chat.RoleAssistant, snap.Turns[1].Role)

	assert.True(t, m.PlaybackDone(gen))
	assert.Equal(t, StatusIdle, m.Snapshot().Status)
}

func TestManager_CompleteTurn_NoAudio(t *testing.T) {
	m := NewManager("roxie")
	gen, _, err := m.BeginTurn("Anything to say?")
	require.NoError(t, err)

	ok := m.CompleteTurn(gen, chat.NewTurn(chat.RoleAssistant, "No comment."), false)
	require.True(t, ok)
	assert.Equal(t, StatusIdle, m.Snapshot().Status)
}

func TestManager_Switch_HardReset(t *testing.T) {
	m := NewManager("roxie")
	_, _, err := m.BeginTurn("Question for Roxie")
	require.NoError(t, err)

	newGen := m.Switch("jat")
	assert.Equal(t, uint64(2), newGen)

	snap := m.Snapshot()
	assert.Equal(t, "jat", snap.CharacterID)
	assert.Equal(t, StatusIdle, snap.Status)
	assert.Empty(t, snap.Turns, "no cross-character memory")
}

func TestManager_StaleGenerationDiscarded(t *testing.T) {
	m := NewManager("roxie")
	oldGen, _, err := m.BeginTurn("Question for Roxie")
	require.NoError(t, err)

	// Character switch mid-completion orphans the in-flight turn
	m.Switch("jat")

	reply := chat.NewTurn(chat.RoleAssistant, "Roxie's late reply")
	assert.False(t, m.CompleteTurn(oldGen, reply, true))
	assert.False(t, m.FailTurn(oldGen))
	assert.False(t, m.PlaybackDone(oldGen))

	snap := m.Snapshot()
	assert.Empty(t, snap.Turns, "stale result must not reach the new session")
	assert.Equal(t, StatusIdle, snap.Status)
}

func TestManager_FailTurn_ReturnsToIdle(t *testing.T) {
	m := NewManager("roxie")
	gen, _, err := m.BeginTurn("Question")
	require.NoError(t, err)

	require.True(t, m.FailTurn(gen))

	snap := m.Snapshot()
	assert.Equal(t, StatusIdle, snap.Status)
	// User turn stays so the input is retry-eligible
	assert.Len(t, snap.Turns, 1)
}

func TestManager_PlaybackDone_OnlyWhenSpeaking(t *testing.T) {
	m := NewManager("roxie")
	assert.False(t, m.PlaybackDone(1))

	gen, _, err := m.BeginTurn("Question")
	require.NoError(t, err)
	assert.False(t, m.PlaybackDone(gen), "awaiting_completion is not speaking")
}
