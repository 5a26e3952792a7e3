package openai

import (
	"context"
	"fmt"
	"log/slog"

	openai "github.com/sashabaranov/go-openai"

	"github.com/recapd/backend/services/summarizer/consts"
)

// Client wraps the completion API. One prompt in, generated text out.
type Client struct {
	client *openai.Client
	model  string
	log    *slog.Logger
}

func New(apiKey, model string, log *slog.Logger) *Client {
	return &Client{
		client: openai.NewClient(apiKey),
		model:  model,
		log:    log,
	}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	c.log.Debug("requesting completion",
		slog.String("model", c.model),
		slog.Int("prompt_length", len(prompt)))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   consts.CompletionMaxTokens,
		Temperature: consts.CompletionTemperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		c.log.Warn("completion returned no choices")
		return "", nil
	}

	return resp.Choices[0].Message.Content, nil
}
