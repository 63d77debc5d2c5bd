package adapter

import (
	"context"
	"fmt"
	"os"
	"strings"

	anthropic "github.com/liushuangls/go-anthropic/v2"
)

// claudeAdapter implements Generator for Anthropic Claude.
type claudeAdapter struct {
	client *anthropic.Client
}

// NewClaude creates a Claude adapter. If apiKey is empty, ANTHROPIC_API_KEY is used.
func NewClaude(apiKey string) Generator {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	return &claudeAdapter{
		client: anthropic.NewClient(apiKey),
	}
}

func (c *claudeAdapter) Info() ModelInfo {
	return ModelInfo{
		Name:              "claude-sonnet-4-6",
		Provider:          ProviderClaude,
		MaxContextWindow:  200000,
		SupportsStreaming: true,
	}
}

func (c *claudeAdapter) Generate(ctx context.Context, req Request) (string, error) {
	model := req.Options.Model
	if model == "" {
		model = "claude-sonnet-4-6"
	}
	maxTokens := req.Options.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}

	resp, err := c.client.CreateMessages(ctx, anthropic.MessagesRequest{
		Model: anthropic.Model(model),
		Messages: []anthropic.Message{
			{
				Role:    anthropic.RoleUser,
				Content: []anthropic.MessageContent{anthropic.NewTextMessageContent(req.Prompt)},
			},
		},
		MaxTokens:   maxTokens,
		Temperature: temperaturePtr(req.Options.Temperature),
	})
	if err != nil {
		return "", fmt.Errorf("claude generate: %w", err)
	}

	var b strings.Builder
	for _, content := range resp.Content {
		b.WriteString(content.GetText())
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("claude generate: empty response")
	}
	return b.String(), nil
}

func temperaturePtr(t float64) *float32 {
	if t == 0 {
		return nil
	}
	f := float32(t)
	return &f
}
