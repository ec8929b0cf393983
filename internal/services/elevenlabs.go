package services

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const (
	elevenLabsBaseURL = "https://api.elevenlabs.io/v1"

	// The API returns MP3 audio for the default output format.
	speechMimeType = "audio/mpeg"
)

// ElevenLabsService implements SpeechService using the ElevenLabs
// text-to-speech API. An optional cache short-circuits synthesis of
// identical (voice, text) pairs.
type ElevenLabsService struct {
	apiKey     string
	modelID    string
	baseURL    string
	httpClient *http.Client
	cache      Cache
	cacheTTL   time.Duration
	logger     *slog.Logger
}

type elevenLabsRequest struct {
	Text    string `json:"text"`
	ModelID string `json:"model_id"`
}

type cachedSpeech struct {
	Audio    string `json:"audio"` // base64
	MimeType string `json:"mime_type"`
}

// NewElevenLabsService creates a new ElevenLabs service. cache may be
// nil, which disables audio caching.
func NewElevenLabsService(apiKey string, modelID string, cache Cache, cacheTTL time.Duration, logger *slog.Logger) *ElevenLabsService {
	return &ElevenLabsService{
		apiKey:  apiKey,
		modelID: modelID,
		baseURL: elevenLabsBaseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// Synthesize renders text in the named character's voice.
func (e *ElevenLabsService) Synthesize(ctx context.Context, text string, characterName string) (*Speech, error) {
	voiceID := VoiceFor(characterName)
	cacheKey := speechCacheKey(voiceID, text)

	if cached := e.fromCache(ctx, cacheKey); cached != nil {
		return cached, nil
	}

	reqBody, err := json.Marshal(elevenLabsRequest{
		Text:    text,
		ModelID: e.modelID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/text-to-speech/%s", e.baseURL, voiceID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("xi-api-key", e.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", speechMimeType)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	speech := &Speech{
		Audio:    body,
		MimeType: speechMimeType,
	}
	e.toCache(ctx, cacheKey, speech)

	return speech, nil
}

func (e *ElevenLabsService) fromCache(ctx context.Context, key string) *Speech {
	if e.cache == nil {
		return nil
	}

	value, err := e.cache.Get(ctx, key)
	if err != nil {
		e.logger.Error("Audio cache read failed", "error", err, "key", key)
		return nil
	}
	if value == "" {
		return nil
	}

	var cached cachedSpeech
	if err := json.Unmarshal([]byte(value), &cached); err != nil {
		e.logger.Error("Audio cache entry is corrupt", "error", err, "key", key)
		return nil
	}

	audio, err := base64.StdEncoding.DecodeString(cached.Audio)
	if err != nil {
		e.logger.Error("Audio cache entry is corrupt", "error", err, "key", key)
		return nil
	}

	e.logger.Debug("Audio cache hit", "key", key)
	return &Speech{Audio: audio, MimeType: cached.MimeType}
}

func (e *ElevenLabsService) toCache(ctx context.Context, key string, speech *Speech) {
	if e.cache == nil {
		return
	}

	value, err := json.Marshal(cachedSpeech{
		Audio:    base64.StdEncoding.EncodeToString(speech.Audio),
		MimeType: speech.MimeType,
	})
	if err != nil {
		e.logger.Error("Failed to marshal audio cache entry", "error", err, "key", key)
		return
	}

	// Cache failures are logged, never surfaced; caching is best-effort.
	if err := e.cache.Set(ctx, key, string(value), e.cacheTTL); err != nil {
		e.logger.Error("Audio cache write failed", "error", err, "key", key)
	}
}

// speechCacheKey is content-addressed: the same voice and text always
// map to the same entry.
func speechCacheKey(voiceID, text string) string {
	sum := sha256.Sum256([]byte(voiceID + "|" + text))
	return "speech:" + hex.EncodeToString(sum[:])
}
