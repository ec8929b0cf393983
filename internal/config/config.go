package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level

	// Text generation
	LLMProvider     string // "openai" or "anthropic"
	ModelName       string
	OpenAIAPIKey    string
	AnthropicAPIKey string

	// Speech synthesis
	ElevenLabsAPIKey string
	ElevenLabsModel  string

	// Optional audio cache. Empty RedisURL disables caching.
	RedisURL      string
	AudioCacheTTL time.Duration

	// Timeout applied to each upstream call (generation and synthesis)
	UpstreamTimeout time.Duration
}

func Load() *Config {
	return &Config{
		Port:             getEnv("PORT", "8080"),
		Environment:      getEnv("ENVIRONMENT", "development"),
		LogLevel:         parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LLMProvider:      getEnv("LLM_PROVIDER", "openai"),
		ModelName:        getEnv("MODEL_NAME", "gpt-4o-mini"),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		ElevenLabsAPIKey: getEnv("ELEVENLABS_API_KEY", ""),
		ElevenLabsModel:  getEnv("ELEVENLABS_MODEL", "eleven_multilingual_v2"),
		RedisURL:         getEnv("REDIS_URL", ""),
		AudioCacheTTL:    parseDuration(getEnv("AUDIO_CACHE_TTL", "1h")),
		UpstreamTimeout:  parseDuration(getEnv("UPSTREAM_TIMEOUT", "30s")),
	}
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
