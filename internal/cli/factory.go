// Package cli wires configuration into the engine, stores and chat loop
// used by the switchboard commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/config"
	"github.com/aretw0/switchboard/pkg/adapters/file"
	"github.com/aretw0/switchboard/pkg/adapters/llm"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/adapters/redis"
	"github.com/aretw0/switchboard/pkg/observability"
	"github.com/aretw0/switchboard/pkg/persistence/middleware"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/session"
)

// Stack is the set of collaborators built from a Config.
type Stack struct {
	Engine   *switchboard.Engine
	Sessions *session.Manager
	// Registry is non-nil when metrics are enabled.
	Registry *prometheus.Registry

	closers []func() error
}

// Close releases store connections.
func (s *Stack) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

// BuildOption adjusts Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	engineOpts []switchboard.Option
}

// WithEngineOptions appends engine options after the configured ones.
func WithEngineOptions(opts ...switchboard.Option) BuildOption {
	return func(b *buildOptions) { b.engineOpts = append(b.engineOpts, opts...) }
}

// Build creates the engine and session manager described by cfg.
func Build(cfg *config.Config, logger *slog.Logger, opts ...BuildOption) (*Stack, error) {
	var bo buildOptions
	for _, opt := range opts {
		opt(&bo)
	}

	stack := &Stack{}
	hooks := observability.LogHooks(logger)
	if cfg.Metrics {
		stack.Registry = prometheus.NewRegistry()
		metrics, err := observability.NewMetrics(stack.Registry)
		if err != nil {
			return nil, err
		}
		hooks = hooks.Merge(metrics.Hooks())
	}

	gen, err := llm.New(llm.Config{
		Provider:    cfg.Delegate.Provider,
		Model:       cfg.Delegate.Model,
		BaseURL:     cfg.Delegate.BaseURL,
		APIKey:      cfg.Delegate.APIKey,
		Timeout:     cfg.Delegate.Timeout,
		MaxFailures: cfg.Delegate.Breaker.MaxFailures,
		OpenTimeout: cfg.Delegate.Breaker.OpenTimeout,
		Logger:      logger,
	})
	if err != nil {
		return nil, fmt.Errorf("delegate: %w", err)
	}

	engineOpts := []switchboard.Option{
		switchboard.WithLogger(logger),
		switchboard.WithLifecycleHooks(hooks),
		switchboard.WithStrategy(switchboard.Strategy(cfg.Strategy)),
		switchboard.WithGenerationParams(cfg.Delegate.Temperature, cfg.Delegate.MaxTokens),
	}
	if gen != nil {
		engineOpts = append(engineOpts, switchboard.WithGenerator(gen))
	}
	stack.Engine, err = switchboard.New(append(engineOpts, bo.engineOpts...)...)
	if err != nil {
		return nil, err
	}

	stack.Sessions, err = stack.buildSessions(cfg.Store, logger)
	if err != nil {
		_ = stack.Close()
		return nil, err
	}
	return stack, nil
}

func (s *Stack) buildSessions(cfg config.StoreConfig, logger *slog.Logger) (*session.Manager, error) {
	var (
		store   ports.SessionStore
		mgrOpts = []session.Option{session.WithLogger(logger)}
	)

	switch cfg.Driver {
	case "", "memory":
		store = memory.NewStore()
	case "file":
		store = file.NewStore(cfg.Dir)
	case "redis":
		var redisOpts []redis.Option
		if cfg.TTL > 0 {
			redisOpts = append(redisOpts, redis.WithTTL(cfg.TTL))
		}
		prefix := redis.DefaultPrefix
		if cfg.Prefix != "" {
			prefix = cfg.Prefix
			redisOpts = append(redisOpts, redis.WithPrefix(prefix))
		}
		rs := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, redisOpts...)
		s.closers = append(s.closers, rs.Close)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rs.Client().Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis %s: %w", cfg.RedisAddr, err)
		}
		store = rs
		mgrOpts = append(mgrOpts, session.WithLocker(redis.NewLocker(rs.Client(), prefix)))
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}

	var mws []middleware.Middleware
	if len(cfg.PIIPatterns) > 0 {
		pii, err := middleware.NewPIIMiddleware(cfg.PIIPatterns)
		if err != nil {
			return nil, err
		}
		mws = append(mws, pii)
	}
	if cfg.EncryptionKey != "" {
		key, err := middleware.DecodeKey(cfg.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("encryption key: %w", err)
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}

	return session.NewManager(middleware.Chain(store, mws...), mgrOpts...), nil
}
