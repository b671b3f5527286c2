package llm

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/switchboard/pkg/ports"
)

// Provider names accepted by New.
const (
	ProviderNone      = "none"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Config selects and tunes a delegate.
type Config struct {
	Provider    string
	Model       string
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxFailures uint32
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

// New builds the configured delegate wrapped in a Breaker.
// It returns nil, nil for ProviderNone or an empty provider.
func New(cfg Config) (ports.TextGenerator, error) {
	var gen ports.TextGenerator
	switch cfg.Provider {
	case "", ProviderNone:
		return nil, nil
	case ProviderOllama:
		gen = NewOllama(cfg.Model, cfg.BaseURL)
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai delegate requires an api key")
		}
		gen = NewOpenAI(cfg.APIKey, cfg.Model, cfg.BaseURL)
	case ProviderAnthropic:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("anthropic delegate requires an api key")
		}
		gen = NewAnthropic(cfg.APIKey, cfg.Model, cfg.BaseURL)
	default:
		return nil, fmt.Errorf("unknown delegate provider %q", cfg.Provider)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("%s delegate requires a model", cfg.Provider)
	}

	bc := DefaultBreakerConfig(cfg.Provider)
	if cfg.Timeout > 0 {
		bc.Timeout = cfg.Timeout
	}
	if cfg.MaxFailures > 0 {
		bc.MaxFailures = cfg.MaxFailures
	}
	if cfg.OpenTimeout > 0 {
		bc.OpenTimeout = cfg.OpenTimeout
	}
	bc.Logger = cfg.Logger
	return NewBreaker(gen, bc), nil
}
