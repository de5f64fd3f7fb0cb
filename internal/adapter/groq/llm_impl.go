package groq

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"github.com/user/scrapeflow/internal/repository"
)

const defaultBaseURL = "https://api.groq.com/openai/v1"

// LanguageModelImpl provides a concrete implementation for the LanguageModel
// interface using Groq's OpenAI-compatible chat completions API.
type LanguageModelImpl struct {
	client      *openai.Client
	model       string
	temperature float32
	configured  bool
}

// NewLanguageModel creates a new instance of LanguageModelImpl. An empty
// apiKey is allowed at construction time; calls will then fail with
// repository.ErrMissingCredential so the pipeline can surface a
// configuration error instead of an opaque HTTP 401.
func NewLanguageModel(apiKey, model string, temperature float32) *LanguageModelImpl {
	cfg := openai.DefaultConfig(apiKey)
	cfg.BaseURL = defaultBaseURL
	return &LanguageModelImpl{
		client:      openai.NewClientWithConfig(cfg),
		model:       model,
		temperature: temperature,
		configured:  apiKey != "",
	}
}

// Complete sends a single user message and returns the model's raw text.
func (m *LanguageModelImpl) Complete(ctx context.Context, prompt string) (string, error) {
	if !m.configured {
		return "", fmt.Errorf("%w: GROQ_API_KEY", repository.ErrMissingCredential)
	}

	resp, err := m.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       m.model,
		Temperature: m.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
