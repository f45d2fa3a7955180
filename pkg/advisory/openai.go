package advisory

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shashiranjanraj/stockledger/config"
	"github.com/shashiranjanraj/stockledger/pkg/logger"
)

// ErrNotConfigured is returned by Generate when no API key is set. It is
// an ordinary advisory failure: callers route it to the fallback like any
// other.
var ErrNotConfigured = errors.New("advisory: no API key configured")

// OpenAIClient calls an OpenAI-compatible chat-completion endpoint. The
// base URL is configurable, so any provider speaking the same wire format
// works (OpenAI, a local proxy, an aggregator).
type OpenAIClient struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAIClient builds a client from config. A missing key does not
// error here; the client is still usable and fails softly per call, which
// keeps boot independent of advisory availability.
func NewOpenAIClient() *OpenAIClient {
	apiKey := config.AdvisoryAPIKey()

	cfg := openai.DefaultConfig(apiKey)
	if base := config.AdvisoryBaseURL(); base != "" {
		cfg.BaseURL = base
	}

	return &OpenAIClient{
		client:  openai.NewClientWithConfig(cfg),
		model:   config.AdvisoryModel(),
		timeout: config.AdvisoryTimeout(),
	}
}

// Generate performs one chat-completion call capped by the configured
// timeout on top of whatever deadline the caller's context carries.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) (string, error) {
	if config.AdvisoryAPIKey() == "" {
		return "", ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are an inventory planning assistant."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		logger.Warn("advisory call failed", "model", c.model, "error", err)
		return "", fmt.Errorf("advisory: chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("advisory: response contained no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
