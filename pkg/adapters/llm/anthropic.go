package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/liushuangls/go-anthropic/v2"

	"github.com/aretw0/switchboard/pkg/ports"
)

// defaultAnthropicMaxTokens is used when the request leaves MaxTokens unset;
// the Messages API requires one.
const defaultAnthropicMaxTokens = 256

// Anthropic calls the Messages API.
type Anthropic struct {
	client *anthropic.Client
	model  string
}

// NewAnthropic creates a client for model. An empty baseURL targets the public API.
func NewAnthropic(apiKey, model, baseURL string) *Anthropic {
	var opts []anthropic.ClientOption
	if baseURL != "" {
		opts = append(opts, anthropic.WithBaseURL(baseURL))
	}
	return &Anthropic{
		client: anthropic.NewClient(apiKey, opts...),
		model:  model,
	}
}

// Generate implements ports.TextGenerator.
func (c *Anthropic) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	temperature := req.Temperature

	msgReq := anthropic.MessagesRequest{
		Model: anthropic.Model(c.model),
		Messages: []anthropic.Message{
			{
				Role: anthropic.RoleUser,
				Content: []anthropic.MessageContent{
					anthropic.NewTextMessageContent(req.Prompt),
				},
			},
		},
		MaxTokens:   maxTokens,
		Temperature: &temperature,
	}
	if req.SystemPrompt != "" {
		msgReq.System = req.SystemPrompt
	}

	resp, err := c.client.CreateMessages(ctx, msgReq)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, content := range resp.Content {
		if content.Text != nil {
			b.WriteString(*content.Text)
		}
	}
	if b.Len() == 0 {
		return "", fmt.Errorf("no response content")
	}
	return b.String(), nil
}
