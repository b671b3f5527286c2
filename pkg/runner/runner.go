package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/input"
	"github.com/aretw0/switchboard/pkg/session"
)

// Chat commands understood by the Runner.
const (
	CommandQuit  = "/quit"
	CommandReset = "/reset"
	CommandSlots = "/slots"
)

// Runner handles the chat loop using the provided IOHandler.
type Runner struct {
	// Handler is the strategy for IO.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Sessions persists the conversation when SessionID is set.
	Sessions  *session.Manager
	SessionID string
	// Workflow is the workflow name recorded on persisted snapshots.
	Workflow string

	// Banner is printed as a system line before the conversation.
	Banner string

	engine *switchboard.Engine
}

// NewRunner creates a Runner. WithEngine is required before Run.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{Logger: logging.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts or resumes a session over w and processes input until the
// conversation ends, the input is exhausted, the user quits or ctx is done.
func (r *Runner) Run(ctx context.Context, w *domain.Workflow) error {
	if r.engine == nil {
		return errors.New("runner: engine is required (use WithEngine)")
	}
	if w == nil {
		return errors.New("runner: workflow is required")
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}

	if r.Banner != "" {
		if err := r.Handler.SystemOutput(ctx, r.Banner); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}

	sess, err := r.open(ctx, w)
	if err != nil {
		return err
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				r.Logger.Debug("chat input closed", "reason", err)
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		msg, err := input.Sanitize(line)
		if err != nil {
			if err := r.Handler.SystemOutput(ctx, "input rejected: "+err.Error()); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		}

		switch msg {
		case "":
			continue
		case CommandQuit, "quit", "exit":
			return r.Handler.SystemOutput(ctx, "Bye!")
		case CommandSlots:
			if err := r.Handler.SystemOutput(ctx, formatSlots(sess.Slots())); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			continue
		case CommandReset:
			sess.Reset()
			if err := r.start(ctx, sess); err != nil {
				return fmt.Errorf("restart: %w", err)
			}
			continue
		}

		reply, turnErr := sess.Submit(ctx, msg)
		if err := r.Handler.Output(ctx, reply); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
		if err := r.save(ctx, sess); err != nil {
			return err
		}
		if turnErr != nil && !errors.Is(turnErr, domain.ErrUnknownTargetNode) {
			return turnErr
		}
		if reply.Ended {
			return r.Handler.SystemOutput(ctx, "conversation ended")
		}
	}
}

// open resumes the persisted session when there is one, otherwise starts
// a new conversation.
func (r *Runner) open(ctx context.Context, w *domain.Workflow) (*switchboard.Session, error) {
	if r.Sessions == nil || r.SessionID == "" {
		sess := r.engine.NewSession(w)
		return sess, r.start(ctx, sess)
	}

	snap, err := r.Sessions.Load(ctx, r.SessionID)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		snap = &domain.Snapshot{SessionID: r.SessionID}
	case err != nil:
		return nil, fmt.Errorf("failed to load session %s: %w", r.SessionID, err)
	}

	sess, err := r.engine.Resume(w, snap)
	if err != nil {
		return nil, err
	}
	if !sess.Active() {
		return sess, r.start(ctx, sess)
	}

	r.Logger.Info("session resumed", "session_id", r.SessionID, "node_id", snap.CurrentNodeID)
	node, _ := sess.CurrentNode()
	if err := r.Handler.SystemOutput(ctx, fmt.Sprintf("resumed session %s at %q", r.SessionID, node.ID)); err != nil {
		return nil, fmt.Errorf("output error: %w", err)
	}
	return sess, nil
}

func (r *Runner) start(ctx context.Context, sess *switchboard.Session) error {
	reply, err := sess.Start(ctx)
	if oerr := r.Handler.Output(ctx, reply); oerr != nil {
		return fmt.Errorf("output error: %w", oerr)
	}
	if serr := r.save(ctx, sess); serr != nil {
		return serr
	}
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	return nil
}

func (r *Runner) save(ctx context.Context, sess *switchboard.Session) error {
	if r.Sessions == nil || r.SessionID == "" {
		return nil
	}
	snap := sess.Snapshot()
	snap.Workflow = r.Workflow
	if err := r.Sessions.Save(ctx, r.SessionID, snap); err != nil {
		return fmt.Errorf("failed to save session %s: %w", r.SessionID, err)
	}
	return nil
}

func formatSlots(slots map[string]string) string {
	if len(slots) == 0 {
		return "no slots collected"
	}
	keys := make([]string, 0, len(slots))
	for k := range slots {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+slots[k])
	}
	return strings.Join(parts, ", ")
}
