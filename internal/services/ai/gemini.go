package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

const (
	// DefaultGeminiModel is the default Gemini model
	DefaultGeminiModel = "gemini-2.0-flash"
)

// GeminiGenerator implements Generator using Google's Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

// NewGeminiGenerator creates a new Gemini-backed generator
func NewGeminiGenerator(apiKey, model string, logger *zap.Logger) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGenerator{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

// Generate produces a completion for the given prompt
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		if g.logger != nil {
			g.logger.Warn("gemini_generate_failed",
				zap.String("model", g.model),
				zap.Error(err),
			)
		}
		return "", fmt.Errorf("gemini generate failed: %w", err)
	}

	text := strings.TrimSpace(result.Text())
	if text == "" {
		return "", ErrEmptyResponse
	}

	return text, nil
}

// RegisterGemini registers the Gemini provider factory
func RegisterGemini(registry *Registry) {
	registry.Register("gemini", func(config map[string]string) (Generator, error) {
		return NewGeminiGenerator(config["api_key"], config["model"], nil)
	})
}
