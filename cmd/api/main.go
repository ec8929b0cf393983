package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/whiskerworks/interrogation-engine/internal/config"
	"github.com/whiskerworks/interrogation-engine/internal/handlers"
	"github.com/whiskerworks/interrogation-engine/internal/logger"
	"github.com/whiskerworks/interrogation-engine/internal/middleware"
	"github.com/whiskerworks/interrogation-engine/internal/orchestrator"
	"github.com/whiskerworks/interrogation-engine/internal/services"
	"github.com/whiskerworks/interrogation-engine/pkg/character"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Setup(cfg)

	log.Info("Starting Interrogation Engine API",
		"port", cfg.Port,
		"environment", cfg.Environment,
		"llm_provider", cfg.LLMProvider,
		"model_name", cfg.ModelName)

	var llmService services.LLMService
	switch strings.ToLower(cfg.LLMProvider) {
	case "openai":
		if cfg.OpenAIAPIKey == "" {
			log.Error("OpenAI API key is required when using openai provider")
			os.Exit(1)
		}
		llmService = services.NewOpenAIService(cfg.OpenAIAPIKey, cfg.ModelName, log)
		log.Info("Using OpenAI LLM provider")
	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			log.Error("Anthropic API key is required when using anthropic provider")
			os.Exit(1)
		}
		llmService = services.NewAnthropicService(cfg.AnthropicAPIKey, cfg.ModelName, log)
		log.Info("Using Anthropic LLM provider")
	default:
		log.Error("Invalid LLM provider specified", "provider", cfg.LLMProvider, "supported", []string{"openai", "anthropic"})
		os.Exit(1)
	}

	if cfg.ElevenLabsAPIKey == "" {
		log.Error("ElevenLabs API key is required")
		os.Exit(1)
	}

	// The audio cache is optional. Sessions are never persisted.
	var cache services.Cache
	if cfg.RedisURL != "" {
		redisService := services.NewRedisService(cfg.RedisURL, log)
		pingCtx, pingCancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := redisService.Ping(pingCtx); err != nil {
			log.Warn("Audio cache unreachable, continuing without caching", "error", err)
		} else {
			cache = redisService
			log.Info("Audio cache connection established")
		}
		pingCancel()
	}

	speechService := services.NewElevenLabsService(cfg.ElevenLabsAPIKey, cfg.ElevenLabsModel, cache, cfg.AudioCacheTTL, log)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	if err := llmService.InitModel(ctx, cfg.ModelName); err != nil {
		log.Error("Failed to initialize LLM model", "error", err, "model", cfg.ModelName)
		os.Exit(1)
	}

	registry := character.DefaultRegistry()
	broker := orchestrator.NewBroker()
	orch := orchestrator.New(registry, llmService, speechService, broker, character.FishTreatCase, orchestrator.Config{
		GenerationTimeout: cfg.UpstreamTimeout,
		SynthesisTimeout:  cfg.UpstreamTimeout,
	}, log)

	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler(cache, llmService, cfg.ModelName, log)
	mux.Handle("/health", healthHandler)

	chatHandler := handlers.NewChatHandler(registry, llmService, character.FishTreatCase, cfg.UpstreamTimeout, log)
	mux.Handle("/v1/chat", chatHandler)
	mux.Handle("/chat", chatHandler)

	speechHandler := handlers.NewSpeechHandler(speechService, cfg.UpstreamTimeout, log)
	mux.Handle("/v1/speech", speechHandler)
	mux.Handle("/speech", speechHandler)

	charactersHandler := handlers.NewCharactersHandler(registry, log)
	mux.Handle("/v1/characters", charactersHandler)
	mux.Handle("/v1/characters/", charactersHandler)

	sessionHandler := handlers.NewSessionHandler(orch, log)
	mux.Handle("/v1/session", sessionHandler)
	mux.Handle("/v1/session/", sessionHandler)

	eventsHandler := handlers.NewEventsHandler(broker, log)
	mux.Handle("/v1/events", eventsHandler)

	handler := middleware.Logger(mux)
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// WriteTimeout stays unset so SSE endpoints can stream; they
		// enforce their own upstream timeouts.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Info("Server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Server is shutting down...")

	// Let in-flight turn pipelines finish before closing shared state.
	orch.Wait()

	if cache != nil {
		if err := cache.Close(); err != nil {
			log.Error("Error closing cache connection", "error", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("Server exited")
}
