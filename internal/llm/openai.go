// internal/llm/openai.go
package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"innerpath/internal/config"
)

// OpenAIProvider talks to any OpenAI-compatible chat completion endpoint.
// Primary/secondary/tertiary chain entries are all instances of this type
// pointed at different base URLs and models.
type OpenAIProvider struct {
	name    string
	model   string
	client  *openai.Client
	timeout time.Duration
	logger  *slog.Logger
}

const systemPrompt = "You are a gentle, practical behavioral wellness guide. " +
	"You write one short piece of daily guidance at a time. " +
	"Respond with a JSON object containing exactly the keys " +
	`"title", "body" and "reflection_prompt". No markdown, no extra keys.`

// NewOpenAIProvider builds one chain entry from its config block.
func NewOpenAIProvider(pc config.ProviderConfig, timeout time.Duration, logger *slog.Logger) (*OpenAIProvider, error) {
	if pc.APIKey == "" {
		return nil, fmt.Errorf("provider %q: api key not set", pc.Name)
	}
	cfg := openai.DefaultConfig(pc.APIKey)
	if pc.BaseURL != "" {
		cfg.BaseURL = pc.BaseURL
	}
	model := pc.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIProvider{
		name:    pc.Name,
		model:   model,
		client:  openai.NewClientWithConfig(cfg),
		timeout: timeout,
		logger:  logger,
	}, nil
}

func (p *OpenAIProvider) Name() string {
	return p.name
}

func (p *OpenAIProvider) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens: maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := p.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", p.classify(err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		p.logger.Warn("Provider returned no choices", "provider", p.name)
		return "", fmt.Errorf("provider %q returned no choices: %w", p.name, ErrBadOutput)
	}
	return resp.Choices[0].Message.Content, nil
}

// classify sorts an API failure into the chain's error classes: rate limits
// and timeouts are transient (retry once), auth problems are configuration
// (skip provider), everything else just falls through.
func (p *OpenAIProvider) classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests, http.StatusServiceUnavailable, http.StatusBadGateway:
			return fmt.Errorf("provider %q: %w: %v", p.name, ErrTransient, err)
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return fmt.Errorf("provider %q: %w: %v", p.name, ErrConfig, err)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("provider %q: %w: %v", p.name, ErrTransient, err)
	}
	return fmt.Errorf("provider %q: %w", p.name, err)
}
