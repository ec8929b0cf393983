package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoiceFor(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"known character", "roxie", "21m00Tcm4TlvDq8ikWAM"},
		{"case insensitive", "ROXIE", "21m00Tcm4TlvDq8ikWAM"},
		{"mixed case", "Jat", "AZnzlk1XvdvUeBnXmlld"},
		{"surrounding whitespace", "  johnny ", "EXAVITQu4vr4xnSDxMaL"},
		{"unknown name falls back", "Jasmina", DefaultVoiceID},
		{"empty name falls back", "", DefaultVoiceID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, VoiceFor(tt.input))
		})
	}
}

func TestVoiceFor_Deterministic(t *testing.T) {
	assert.Equal(t, VoiceFor("roxie"), VoiceFor("roxie"))
	assert.Equal(t, VoiceFor("nobody"), VoiceFor("somebody else"))
}

func newTestElevenLabs(t *testing.T, handler http.HandlerFunc, cache Cache) *ElevenLabsService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := NewElevenLabsService("test-key", "eleven_multilingual_v2", cache, time.Hour, logger)
	svc.baseURL = server.URL
	return svc
}

func TestElevenLabsService_Synthesize(t *testing.T) {
	var gotPath string
	var gotBody elevenLabsRequest

	svc := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		assert.Equal(t, "test-key", r.Header.Get("xi-api-key"))

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("fake-mp3-bytes"))
	}, nil)

	speech, err := svc.Synthesize(context.Background(), "I am innocent!", "Roxie")
	require.NoError(t, err)

	assert.Equal(t, []byte("fake-mp3-bytes"), speech.Audio)
	assert.Equal(t, "audio/mpeg", speech.MimeType)
	assert.True(t, strings.HasSuffix(gotPath, "/text-to-speech/"+VoiceFor("roxie")))
	assert.Equal(t, "I am innocent!", gotBody.Text)
	assert.Equal(t, "eleven_multilingual_v2", gotBody.ModelID)
}

func TestElevenLabsService_SynthesizeUpstreamError(t *testing.T) {
	svc := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	}, nil)

	_, err := svc.Synthesize(context.Background(), "hello", "roxie")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestElevenLabsService_CacheRoundTrip(t *testing.T) {
	requests := 0
	cache := NewMockCache()

	svc := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte("fake-mp3-bytes"))
	}, cache)

	first, err := svc.Synthesize(context.Background(), "Treats? What treats?", "roxie")
	require.NoError(t, err)

	second, err := svc.Synthesize(context.Background(), "Treats? What treats?", "roxie")
	require.NoError(t, err)

	assert.Equal(t, 1, requests, "second synthesis must be served from cache")
	assert.Equal(t, first.Audio, second.Audio)
	assert.Equal(t, first.MimeType, second.MimeType)
}

func TestElevenLabsService_CacheFailureIsBestEffort(t *testing.T) {
	cache := NewMockCache()
	cache.GetFunc = func(ctx context.Context, key string) (string, error) {
		return "", assert.AnError
	}
	cache.SetFunc = func(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
		return assert.AnError
	}

	svc := newTestElevenLabs(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("fake-mp3-bytes"))
	}, cache)

	speech, err := svc.Synthesize(context.Background(), "hello", "roxie")
	require.NoError(t, err, "cache failures must not break synthesis")
	assert.Equal(t, []byte("fake-mp3-bytes"), speech.Audio)
}

func TestSpeechCacheKey(t *testing.T) {
	a := speechCacheKey("voice-1", "hello")
	b := speechCacheKey("voice-1", "hello")
	c := speechCacheKey("voice-2", "hello")
	d := speechCacheKey("voice-1", "goodbye")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, a, d)
	assert.True(t, strings.HasPrefix(a, "speech:"))
}
