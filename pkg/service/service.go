// Package service runs persisted dialogue sessions for network hosts.
//
// It resolves a session's workflow by name, resumes the session from its
// snapshot, runs one operation and saves the result, all under the session
// lock held by a session.Manager. The HTTP and MCP adapters are thin
// translations of these calls.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/internal/presentation/graph"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/input"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/session"
)

// Config wires the service to its collaborators.
type Config struct {
	Engine *switchboard.Engine
	// Workflows resolves the workflow a session runs against.
	Workflows ports.WorkflowRepository
	// DefaultWorkflow is used when a session is created without a name.
	DefaultWorkflow string
	Sessions        *session.Manager
	Logger          *slog.Logger
}

// Result is the outcome of an operation that runs a turn.
type Result struct {
	SessionID string               `json:"session_id"`
	Workflow  string               `json:"workflow"`
	Reply     domain.Reply         `json:"reply"`
	Diff      *domain.SnapshotDiff `json:"diff,omitempty"`
}

// Service implements the host-visible operations over persisted sessions.
type Service struct {
	engine          *switchboard.Engine
	workflows       ports.WorkflowRepository
	defaultWorkflow string
	sessions        *session.Manager
	logger          *slog.Logger
}

// New validates cfg and creates a Service.
func New(cfg Config) (*Service, error) {
	if cfg.Engine == nil || cfg.Workflows == nil || cfg.Sessions == nil {
		return nil, errors.New("service: engine, workflows and sessions are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		engine:          cfg.Engine,
		workflows:       cfg.Workflows,
		defaultWorkflow: cfg.DefaultWorkflow,
		sessions:        cfg.Sessions,
		logger:          logger,
	}, nil
}

// DefaultWorkflow returns the name used when none is given.
func (s *Service) DefaultWorkflow() string { return s.defaultWorkflow }

// Workflow resolves name, or the default workflow when name is empty.
func (s *Service) Workflow(ctx context.Context, name string) (string, *domain.Workflow, error) {
	if name == "" {
		name = s.defaultWorkflow
	}
	if name == "" {
		return "", nil, fmt.Errorf("%w: no workflow named and no default configured", domain.ErrWorkflowNotFound)
	}
	w, err := s.workflows.Get(ctx, name)
	return name, w, err
}

// ListWorkflows returns the available workflow names.
func (s *Service) ListWorkflows(ctx context.Context) ([]string, error) {
	return s.workflows.List(ctx)
}

// Analyze runs the static analysis on the named workflow.
func (s *Service) Analyze(ctx context.Context, name string) (domain.Report, error) {
	_, w, err := s.Workflow(ctx, name)
	if err != nil {
		return domain.Report{}, err
	}
	return s.engine.Analyze(w), nil
}

// Graph renders the named workflow as Mermaid.
func (s *Service) Graph(ctx context.Context, name string) (string, error) {
	_, w, err := s.Workflow(ctx, name)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(w, nil), nil
}

// SessionGraph renders the session's workflow with its current node highlighted.
func (s *Service) SessionGraph(ctx context.Context, id string) (string, error) {
	snap, err := s.sessions.Load(ctx, id)
	if err != nil {
		return "", err
	}
	_, w, err := s.Workflow(ctx, snap.Workflow)
	if err != nil {
		return "", err
	}
	return graph.GenerateMermaid(w, graph.OverlayFromSnapshot(snap)), nil
}

// Create starts a new session on the named workflow and persists it.
// A failed start (no unique start node) is reported in the reply and the
// idle session is kept so it can be restarted.
func (s *Service) Create(ctx context.Context, workflow string) (Result, error) {
	name, w, err := s.Workflow(ctx, workflow)
	if err != nil {
		return Result{}, err
	}

	sess, reply, startErr := s.engine.StartSession(ctx, w)
	snap := sess.Snapshot()
	snap.Workflow = name
	if err := s.sessions.Create(ctx, sess.ID(), snap); err != nil {
		return Result{}, err
	}
	if startErr != nil {
		s.logger.Warn("session start failed", "session_id", sess.ID(), "workflow", name, "err", startErr)
	}
	return Result{SessionID: sess.ID(), Workflow: name, Reply: reply, Diff: domain.Diff(nil, snap)}, nil
}

// Start restarts an existing session from its start node.
func (s *Service) Start(ctx context.Context, id string) (Result, error) {
	return s.turn(ctx, id, func(ctx context.Context, sess *switchboard.Session) (domain.Reply, error) {
		return sess.Start(ctx)
	})
}

// Submit sanitizes message and processes it as one user turn.
// Sanitization failures wrap input.ErrTooLarge or input.ErrInvalidUTF8.
func (s *Service) Submit(ctx context.Context, id, message string) (Result, error) {
	clean, err := input.Sanitize(message)
	if err != nil {
		s.logger.Warn("message rejected", "session_id", id, "err", err, "size", len(message))
		return Result{}, err
	}
	return s.turn(ctx, id, func(ctx context.Context, sess *switchboard.Session) (domain.Reply, error) {
		return sess.Submit(ctx, clean)
	})
}

// Reset returns the session to idle.
func (s *Service) Reset(ctx context.Context, id string) (Result, error) {
	return s.turn(ctx, id, func(ctx context.Context, sess *switchboard.Session) (domain.Reply, error) {
		sess.Reset()
		return domain.Reply{}, nil
	})
}

// Load returns the persisted snapshot.
func (s *Service) Load(ctx context.Context, id string) (*domain.Snapshot, error) {
	return s.sessions.Load(ctx, id)
}

// Delete removes the session.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

// List returns the persisted session IDs.
func (s *Service) List(ctx context.Context) ([]string, error) {
	return s.sessions.List(ctx)
}

// turn resumes the session, runs op and persists the result under the
// session lock. Turn errors travel in the reply's ErrorKind; the returned
// error is reserved for lookup and storage failures.
func (s *Service) turn(ctx context.Context, id string, op func(context.Context, *switchboard.Session) (domain.Reply, error)) (Result, error) {
	var res Result
	err := s.sessions.Update(ctx, id, func(ctx context.Context, before *domain.Snapshot) (*domain.Snapshot, error) {
		_, w, err := s.Workflow(ctx, before.Workflow)
		if err != nil {
			return nil, err
		}
		sess, err := s.engine.Resume(w, before)
		if err != nil {
			return nil, err
		}

		reply, turnErr := op(ctx, sess)
		if turnErr != nil {
			s.logger.Debug("turn returned error signal", "session_id", id, "kind", reply.Error, "err", turnErr)
		}

		after := sess.Snapshot()
		after.Workflow = before.Workflow
		res = Result{
			SessionID: id,
			Workflow:  before.Workflow,
			Reply:     reply,
			Diff:      domain.Diff(before, after),
		}
		return after, nil
	})
	return res, err
}
