package orchestrator

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/character"
	"github.com/whiskerworks/interrogation-engine/pkg/chat"
	"github.com/whiskerworks/interrogation-engine/pkg/prompts"
	"github.com/whiskerworks/interrogation-engine/pkg/session"
)

// Orchestrator drives the interrogation turn pipeline: it accepts user
// input, streams a character reply from the LLM, synthesizes audio, and
// commits the result to the session under the generation token captured
// when the turn started. Results for a superseded generation are
// silently discarded.
type Orchestrator struct {
	registry *character.Registry
	llm      services.LLMService
	speech   services.SpeechService
	manager  *session.Manager
	broker   *Broker
	caseFile character.CaseFile
	logger   *slog.Logger

	generationTimeout time.Duration
	synthesisTimeout  time.Duration

	wg sync.WaitGroup
}

// Config carries the orchestrator's tunable timeouts.
type Config struct {
	GenerationTimeout time.Duration
	SynthesisTimeout  time.Duration
}

const defaultUpstreamTimeout = 30 * time.Second

// New creates an orchestrator with a fresh session bound to the given
// character. An unknown character id falls back to the default
// character.
func New(registry *character.Registry, llm services.LLMService, speech services.SpeechService, broker *Broker, caseFile character.CaseFile, cfg Config, logger *slog.Logger) *Orchestrator {
	if cfg.GenerationTimeout <= 0 {
		cfg.GenerationTimeout = defaultUpstreamTimeout
	}
	if cfg.SynthesisTimeout <= 0 {
		cfg.SynthesisTimeout = defaultUpstreamTimeout
	}

	return &Orchestrator{
		registry:          registry,
		llm:               llm,
		speech:            speech,
		manager:           session.NewManager(character.Default().ID),
		broker:            broker,
		caseFile:          caseFile,
		logger:            logger,
		generationTimeout: cfg.GenerationTimeout,
		synthesisTimeout:  cfg.SynthesisTimeout,
	}
}

// Snapshot returns a copy of the live session.
func (o *Orchestrator) Snapshot() session.Session {
	return o.manager.Snapshot()
}

// SwitchCharacter discards the live session and starts a fresh one for
// the given character. Unknown ids fall back to the default character.
// Returns the resolved character.
func (o *Orchestrator) SwitchCharacter(id string) character.Character {
	c, ok := o.registry.GetByID(id)
	if !ok {
		o.logger.Warn("Unknown character requested, using default", "character_id", id)
		c = character.Default()
	}

	gen := o.manager.Switch(c.ID)
	o.broker.Publish(Event{
		Type:       EventTypeSessionSwitched,
		Generation: gen,
		Data: map[string]interface{}{
			"character_id": c.ID,
		},
	})
	o.logger.Info("Session switched", "character_id", c.ID, "generation", gen)
	return c
}

// SubmitUserInput validates and appends the user's turn, then launches
// the asynchronous turn pipeline. Returns session.ErrBusy when a turn
// is already in flight and session.ErrEmptyInput for blank input; in
// both cases the session is untouched.
func (o *Orchestrator) SubmitUserInput(ctx context.Context, text string) error {
	gen, _, err := o.manager.BeginTurn(text)
	if err != nil {
		return err
	}

	snap := o.manager.Snapshot()
	o.wg.Add(1)
	go o.runTurn(context.WithoutCancel(ctx), gen, snap)
	return nil
}

// PlaybackComplete marks audio playback finished, returning the session
// to idle. Returns false when the session is not speaking.
func (o *Orchestrator) PlaybackComplete() bool {
	snap := o.manager.Snapshot()
	return o.manager.PlaybackDone(snap.Generation)
}

// Wait blocks until all in-flight turn pipelines have finished. Used
// for graceful shutdown and by tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

func (o *Orchestrator) runTurn(ctx context.Context, gen uint64, snap session.Session) {
	defer o.wg.Done()

	c, ok := o.registry.GetByID(snap.CharacterID)
	if !ok {
		c = character.Default()
	}

	reply, err := o.generate(ctx, gen, c, snap.Turns)
	if err != nil {
		o.failTurn(gen, err)
		return
	}

	turn := chat.NewTurn(chat.RoleAssistant, reply)
	turn.Metadata = &chat.TurnMetadata{CharacterID: c.ID}

	spoken := turn.Text()
	if strings.TrimSpace(spoken) == "" {
		o.publishTurn(gen, turn, nil)
		return
	}

	sctx, cancel := context.WithTimeout(ctx, o.synthesisTimeout)
	defer cancel()
	speech, err := o.speech.Synthesize(sctx, spoken, c.Name)
	if err != nil {
		// The transcript survives a synthesis failure; the turn is
		// published without audio and the session returns to idle.
		o.logger.Warn("Speech synthesis failed, publishing text only",
			"error", err,
			"character_id", c.ID,
			"generation", gen,
		)
		speech = nil
	}
	o.publishTurn(gen, turn, speech)
}

// generate streams the character's reply, broadcasting each delta as a
// turn.chunk event, and returns the accumulated text.
func (o *Orchestrator) generate(ctx context.Context, gen uint64, c character.Character, turns []chat.Turn) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, o.generationTimeout)
	defer cancel()

	messages := make([]chat.Message, 0, len(turns)+1)
	messages = append(messages, chat.Message{
		Role:    chat.RoleSystem,
		Content: prompts.Compose(c, o.caseFile),
	})
	messages = append(messages, chat.ToMessages(turns)...)

	chunks, err := o.llm.ChatStream(ctx, messages)
	if err != nil {
		return "", err
	}

	var reply strings.Builder
	for chunk := range chunks {
		if chunk.Err != nil {
			return "", chunk.Err
		}
		if chunk.Done {
			break
		}
		if chunk.Content == "" {
			continue
		}
		reply.WriteString(chunk.Content)
		o.broker.Publish(Event{
			Type:       EventTypeTurnChunk,
			Generation: gen,
			Data: map[string]interface{}{
				"delta": chunk.Content,
			},
		})
	}
	return reply.String(), nil
}

// publishTurn commits the assistant turn and broadcasts it together
// with its audio, so consumers never observe text before sound.
func (o *Orchestrator) publishTurn(gen uint64, turn chat.Turn, speech *services.Speech) {
	speaking := speech != nil
	if !o.manager.CompleteTurn(gen, turn, speaking) {
		o.logger.Debug("Discarding turn for stale generation", "generation", gen)
		return
	}

	data := map[string]interface{}{
		"turn": turn,
	}
	if speech != nil {
		data["audio"] = base64.StdEncoding.EncodeToString(speech.Audio)
		data["mime_type"] = speech.MimeType
	}
	o.broker.Publish(Event{
		Type:       EventTypeTurnPublished,
		Generation: gen,
		Data:       data,
	})
}

func (o *Orchestrator) failTurn(gen uint64, err error) {
	if !o.manager.FailTurn(gen) {
		o.logger.Debug("Discarding failure for stale generation", "generation", gen)
		return
	}

	o.logger.Error("Turn generation failed", "error", err, "generation", gen)
	o.broker.Publish(Event{
		Type:       EventTypeTurnFailed,
		Generation: gen,
		Data: map[string]interface{}{
			"error": err.Error(),
		},
	})
}
