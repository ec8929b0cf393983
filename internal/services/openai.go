package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/whiskerworks/interrogation-engine/pkg/chat"
)

const (
	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 512
)

// OpenAIService implements LLMService using the OpenAI chat
// completions API.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

// NewOpenAIService creates a new OpenAI service
func NewOpenAIService(apiKey string, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		logger:    logger,
	}
}

// NewOpenAIServiceWithBaseURL creates a service against a custom API
// endpoint. Used by tests and OpenAI-compatible gateways.
func NewOpenAIServiceWithBaseURL(apiKey, modelName, baseURL string, logger *slog.Logger) *OpenAIService {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = baseURL
	return &OpenAIService{
		client:    openai.NewClientWithConfig(cfg),
		modelName: modelName,
		logger:    logger,
	}
}

// InitModel initializes the model (hosted OpenAI models need no explicit initialization)
func (s *OpenAIService) InitModel(ctx context.Context, modelName string) error {
	return nil
}

func toOpenAIMessages(messages []chat.Message) []openai.ChatCompletionMessage {
	out := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}
	return out
}

// Chat generates a complete chat response
func (s *OpenAIService) Chat(ctx context.Context, messages []chat.Message) (*chat.Response, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: DefaultOpenAITemperature,
		MaxTokens:   DefaultOpenAIMaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return &chat.Response{Message: ""}, nil
	}

	return &chat.Response{Message: resp.Choices[0].Message.Content}, nil
}

// ChatStream generates a chat response as a token stream
func (s *OpenAIService) ChatStream(ctx context.Context, messages []chat.Message) (<-chan StreamChunk, error) {
	stream, err := s.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       s.modelName,
		Messages:    toOpenAIMessages(messages),
		Temperature: DefaultOpenAITemperature,
		MaxTokens:   DefaultOpenAIMaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion stream failed: %w", err)
	}

	chunks := make(chan StreamChunk)
	go func() {
		defer close(chunks)
		defer func() {
			_ = stream.Close()
		}()

		for {
			resp, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				chunks <- StreamChunk{Done: true}
				return
			}
			if err != nil {
				s.logger.Error("OpenAI stream receive failed", "error", err)
				chunks <- StreamChunk{Err: fmt.Errorf("openai stream failed: %w", err)}
				return
			}
			if len(resp.Choices) == 0 {
				continue
			}
			if delta := resp.Choices[0].Delta.Content; delta != "" {
				select {
				case chunks <- StreamChunk{Content: delta}:
				case <-ctx.Done():
					// Consumer is gone; surface cancellation if anyone
					// is still listening and stop.
					select {
					case chunks <- StreamChunk{Err: ctx.Err()}:
					default:
					}
					return
				}
			}
		}
	}()

	return chunks, nil
}
