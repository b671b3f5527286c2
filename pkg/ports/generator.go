package ports

import "context"

// GenerateRequest is the input of a text generation delegate.
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
}

// TextGenerator is the delegate capability behind model-backed helpers.
//
// Implementations must surface failures as errors rather than block forever;
// callers bound each call with the context they pass.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
}

// GenerateFunc adapts a plain function to TextGenerator.
type GenerateFunc func(ctx context.Context, req GenerateRequest) (string, error)

// Generate calls f.
func (f GenerateFunc) Generate(ctx context.Context, req GenerateRequest) (string, error) {
	return f(ctx, req)
}
