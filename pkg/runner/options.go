package runner

import (
	"log/slog"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/pkg/session"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the engine that runs the conversation. Required.
func WithEngine(engine *switchboard.Engine) Option {
	return func(r *Runner) { r.engine = engine }
}

// WithInputHandler configures the IOHandler. Defaults to a TextHandler on
// Stdin/Stdout.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) { r.Handler = handler }
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) { r.Logger = logger }
}

// WithSessions persists the conversation under id. An existing session is
// resumed; workflow is recorded on new snapshots.
func WithSessions(mgr *session.Manager, id, workflow string) Option {
	return func(r *Runner) {
		r.Sessions = mgr
		r.SessionID = id
		r.Workflow = workflow
	}
}

// WithBanner prints msg as a system line before the conversation starts.
func WithBanner(msg string) Option {
	return func(r *Runner) { r.Banner = msg }
}
