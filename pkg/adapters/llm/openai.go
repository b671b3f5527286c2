package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/aretw0/switchboard/pkg/ports"
)

// DefaultOllamaURL is the OpenAI-compatible endpoint of a local Ollama.
const DefaultOllamaURL = "http://localhost:11434/v1"

// OpenAI calls the chat completions API.
type OpenAI struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a client for model. An empty baseURL targets api.openai.com.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAI{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

// NewOllama creates an OpenAI-compatible client for a local Ollama server.
// Ollama ignores the key but go-openai always sends one.
func NewOllama(model, baseURL string) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}
	if !strings.HasSuffix(strings.TrimRight(baseURL, "/"), "/v1") {
		baseURL = strings.TrimRight(baseURL, "/") + "/v1"
	}
	return NewOpenAI("ollama", model, baseURL)
}

// Generate implements ports.TextGenerator.
func (c *OpenAI) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	var messages []openai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices")
	}
	return resp.Choices[0].Message.Content, nil
}
