package text

import (
	"context"
	"errors"
	"strings"

	"github.com/sashabaranov/go-openai"

	"dndtools/internal/domain"
)

// OpenAIOptions configures the OpenAI-compatible chat client. BaseURL may
// point at any OpenAI-compatible proxy (e.g. a LiteLLM deployment).
type OpenAIOptions struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIGenerator implements Generator against the chat-completions API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAIGenerator constructs the client from explicit options; nothing is
// read from the environment here.
func NewOpenAIGenerator(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if opts.APIKey == "" {
		return nil, errors.New("text: api key is required")
	}
	model := strings.TrimSpace(opts.Model)
	if model == "" {
		model = openai.GPT4oMini
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if base := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"); base != "" {
		cfg.BaseURL = base
	}

	return &OpenAIGenerator{
		client: openai.NewClientWithConfig(cfg),
		model:  model,
	}, nil
}

// Model returns the default model name.
func (g *OpenAIGenerator) Model() string { return g.model }

// Complete performs one chat completion and returns the first choice's text.
// Transport, auth and quota failures surface as *domain.GenerationError.
func (g *OpenAIGenerator) Complete(ctx context.Context, systemPrompt, userPrompt, model string) (string, error) {
	if strings.TrimSpace(model) == "" {
		model = g.model
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", &domain.GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &domain.GenerationError{Err: errors.New("no completion choices returned")}
	}
	return resp.Choices[0].Message.Content, nil
}

var _ Generator = (*OpenAIGenerator)(nil)
