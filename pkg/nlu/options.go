package nlu

import (
	"io"
	"log/slog"
)

// ModelOption configures model-backed strategies.
type ModelOption func(*modelConfig)

type modelConfig struct {
	temperature float32
	maxTokens   int
	logger      *slog.Logger
}

func newModelConfig(opts []ModelOption) modelConfig {
	cfg := modelConfig{
		temperature: 0.7,
		maxTokens:   256,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return cfg
}

// WithTemperature sets the sampling temperature passed to the delegate.
func WithTemperature(t float32) ModelOption {
	return func(c *modelConfig) {
		c.temperature = t
	}
}

// WithMaxTokens caps the delegate reply length.
func WithMaxTokens(n int) ModelOption {
	return func(c *modelConfig) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithLogger sets the logger used to report absorbed delegate failures.
func WithLogger(l *slog.Logger) ModelOption {
	return func(c *modelConfig) {
		if l != nil {
			c.logger = l
		}
	}
}
