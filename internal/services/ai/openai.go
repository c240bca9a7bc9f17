package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

const (
	// DefaultOpenAIModel is the default model to use
	DefaultOpenAIModel = "gpt-4o-mini"
	// DefaultOpenAIBaseURL is the default OpenAI API base URL
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"
	// DefaultTimeout is the default timeout for API calls
	DefaultTimeout = 30 * time.Second
)

// OpenAIGenerator implements Generator using OpenAI's chat completions API
type OpenAIGenerator struct {
	client openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIGenerator creates a new OpenAI-backed generator
func NewOpenAIGenerator(apiKey, baseURL, model string, logger *zap.Logger) *OpenAIGenerator {
	if model == "" {
		model = DefaultOpenAIModel
	}
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}

	httpClient := &http.Client{
		Timeout: DefaultTimeout,
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
	)

	return &OpenAIGenerator{
		client: client,
		model:  model,
		logger: logger,
	}
}

// Generate produces a completion for the given prompt
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: shared.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	}

	start := time.Now()
	resp, err := g.client.Chat.Completions.New(ctx, req)
	latency := time.Since(start)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("openai_generate_failed",
				zap.String("model", g.model),
				zap.Error(err),
				zap.Int64("latency_ms", latency.Milliseconds()),
			)
		}
		if apiErr := extractAPIError(err); apiErr != nil {
			return "", fmt.Errorf("openai generate failed: %w", apiErr)
		}
		return "", fmt.Errorf("openai generate failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// RegisterOpenAI registers the OpenAI provider factory
func RegisterOpenAI(registry *Registry) {
	registry.Register("openai", func(config map[string]string) (Generator, error) {
		return NewOpenAIGenerator(config["api_key"], config["base_url"], config["model"], nil), nil
	})
}
