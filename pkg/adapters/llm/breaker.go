package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/ports"
)

// errEmptyReply counts a blank completion as a failed call.
var errEmptyReply = errors.New("empty reply")

// BreakerConfig tunes Breaker.
type BreakerConfig struct {
	Name string
	// Timeout bounds every call. Zero disables the per-call deadline.
	Timeout time.Duration
	// MaxFailures consecutive failures open the circuit.
	MaxFailures uint32
	// OpenTimeout is how long the circuit stays open before a probe.
	OpenTimeout time.Duration
	Logger      *slog.Logger
}

// DefaultBreakerConfig returns the settings used when none are configured.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:        name,
		Timeout:     10 * time.Second,
		MaxFailures: 3,
		OpenTimeout: 30 * time.Second,
	}
}

// Breaker guards a TextGenerator. Every failure, including timeouts, empty
// replies and rejections from an open circuit, is returned wrapping
// domain.ErrDelegateUnavailable.
type Breaker struct {
	next    ports.TextGenerator
	cb      *gobreaker.CircuitBreaker
	timeout time.Duration
}

// NewBreaker wraps next.
func NewBreaker(next ports.TextGenerator, cfg BreakerConfig) *Breaker {
	if cfg.MaxFailures == 0 {
		cfg.MaxFailures = 3
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("delegate circuit changed state",
				"breaker", name, "from", from.String(), "to", to.String())
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not the delegate's fault.
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &Breaker{next: next, cb: cb, timeout: cfg.Timeout}
}

// State reports the circuit state ("closed", "half-open", "open").
func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Generate implements ports.TextGenerator.
func (b *Breaker) Generate(ctx context.Context, req ports.GenerateRequest) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		callCtx := ctx
		if b.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, b.timeout)
			defer cancel()
		}

		text, err := b.next.Generate(callCtx, req)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(text) == "" {
			return nil, errEmptyReply
		}
		return text, nil
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrDelegateUnavailable, err)
	}
	return out.(string), nil
}
