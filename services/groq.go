package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// GroqService talks to Groq's OpenAI-compatible completions endpoint. It
// backs the ATS and resume-analysis prompts.
type GroqService struct {
	llm   llms.Model
	model string
}

func NewGroqService(apiKey, baseURL, model string) *GroqService {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithBaseURL(baseURL),
		openai.WithModel(model),
	)
	if err != nil {
		slog.Error("Failed to create Groq client", "error", err)
		return nil
	}

	return &GroqService{llm: llm, model: model}
}

// Complete runs one prompt through the model with the shared timeout and
// retry policy.
func (s *GroqService) Complete(ctx context.Context, prompt string, temperature float64) (string, error) {
	if s.llm == nil {
		return "", fmt.Errorf("groq client not initialized")
	}

	return callWithRetry(ctx, maxAIAttempts, func(ctx context.Context) (string, error) {
		completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, prompt, llms.WithTemperature(temperature))
		if err != nil {
			return "", fmt.Errorf("failed to generate completion: %w", err)
		}
		return completion, nil
	})
}
