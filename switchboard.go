package switchboard

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"

	"github.com/aretw0/switchboard/internal/runtime"
	"github.com/aretw0/switchboard/internal/validator"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/nlu"
	"github.com/aretw0/switchboard/pkg/ports"
)

// Strategy selects how slots and intents are resolved.
type Strategy string

const (
	// StrategyAuto uses the model when a generator is configured and falls
	// back to heuristics otherwise or when the model fails.
	StrategyAuto Strategy = "auto"
	// StrategyHeuristic never calls a generator.
	StrategyHeuristic Strategy = "heuristic"
	// StrategyModel requires a generator and has no heuristic fallback.
	StrategyModel Strategy = "model"
)

// Engine is the high-level entry point of the library.
// It holds the collaborators shared by every session it creates.
type Engine struct {
	extractor    nlu.SlotExtractor
	classifier   nlu.IntentClassifier
	generator    ports.TextGenerator
	strategy     Strategy
	modelOpts    []nlu.ModelOption
	interpolator runtime.Interpolator
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	newID        func() string
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithGenerator injects the text generation delegate used by model-backed strategies.
func WithGenerator(gen ports.TextGenerator) Option {
	return func(e *Engine) {
		e.generator = gen
	}
}

// WithStrategy selects the extraction and classification strategy (default: auto).
func WithStrategy(s Strategy) Option {
	return func(e *Engine) {
		e.strategy = s
	}
}

// WithGenerationParams sets the temperature and token cap sent to the generator.
func WithGenerationParams(temperature float32, maxTokens int) Option {
	return func(e *Engine) {
		e.modelOpts = append(e.modelOpts, nlu.WithTemperature(temperature), nlu.WithMaxTokens(maxTokens))
	}
}

// WithExtractor overrides the slot extractor chosen by the strategy.
func WithExtractor(x nlu.SlotExtractor) Option {
	return func(e *Engine) {
		e.extractor = x
	}
}

// WithClassifier overrides the intent classifier chosen by the strategy.
func WithClassifier(c nlu.IntentClassifier) Option {
	return func(e *Engine) {
		e.classifier = c
	}
}

// WithInterpolator sets a custom template renderer for node content.
func WithInterpolator(interp runtime.Interpolator) Option {
	return func(e *Engine) {
		e.interpolator = interp
	}
}

// WithSessionIDs overrides how session identifiers are generated.
func WithSessionIDs(newID func() string) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// New initializes an Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{strategy: StrategyAuto}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if eng.newID == nil {
		eng.newID = uuid.NewString
	}
	eng.modelOpts = append(eng.modelOpts, nlu.WithLogger(eng.logger))

	switch eng.strategy {
	case StrategyHeuristic:
		eng.setDefaults(nlu.HeuristicExtractor{}, nlu.KeywordClassifier{})
	case StrategyModel:
		if eng.generator == nil {
			return nil, fmt.Errorf("strategy %q requires a generator", eng.strategy)
		}
		eng.setDefaults(
			nlu.NewModelExtractor(eng.generator, eng.modelOpts...),
			nlu.NewModelClassifier(eng.generator, nil, eng.modelOpts...),
		)
	case StrategyAuto:
		if eng.generator == nil {
			eng.setDefaults(nlu.HeuristicExtractor{}, nlu.KeywordClassifier{})
			break
		}
		eng.setDefaults(
			nlu.FallbackExtractor{
				Primary:   nlu.NewModelExtractor(eng.generator, eng.modelOpts...),
				Secondary: nlu.HeuristicExtractor{},
			},
			nlu.NewModelClassifier(eng.generator, nlu.KeywordClassifier{}, eng.modelOpts...),
		)
	default:
		return nil, fmt.Errorf("unknown strategy %q", eng.strategy)
	}

	return eng, nil
}

func (e *Engine) setDefaults(x nlu.SlotExtractor, c nlu.IntentClassifier) {
	if e.extractor == nil {
		e.extractor = x
	}
	if e.classifier == nil {
		e.classifier = c
	}
}

// NewSession creates an idle session over w.
func (e *Engine) NewSession(w *domain.Workflow) *Session {
	return e.session(e.newID(), w)
}

func (e *Engine) session(id string, w *domain.Workflow) *Session {
	return &Session{rt: runtime.NewSession(id, w,
		runtime.WithExtractor(e.extractor),
		runtime.WithClassifier(e.classifier),
		runtime.WithInterpolator(e.interpolator),
		runtime.WithLifecycleHooks(e.hooks),
		runtime.WithLogger(e.logger),
	)}
}

// StartSession creates a session over w and starts it.
// The session is returned even when starting fails, so hosts can retry after Reset.
func (e *Engine) StartSession(ctx context.Context, w *domain.Workflow) (*Session, domain.Reply, error) {
	s := e.NewSession(w)
	reply, err := s.Start(ctx)
	return s, reply, err
}

// Submit forwards message to s.
func (e *Engine) Submit(ctx context.Context, s *Session, message string) (domain.Reply, error) {
	return s.Submit(ctx, message)
}

// Reset clears s.
func (e *Engine) Reset(s *Session) {
	s.Reset()
}

// Analyze runs the static workflow analysis.
func (e *Engine) Analyze(w *domain.Workflow) domain.Report {
	return validator.Analyze(w)
}

// Resume rebuilds a session from a persisted snapshot.
func (e *Engine) Resume(w *domain.Workflow, snap *domain.Snapshot) (*Session, error) {
	if snap == nil || snap.SessionID == "" {
		return nil, fmt.Errorf("resume: snapshot without session id")
	}
	s := e.session(snap.SessionID, w)
	if err := s.rt.Restore(snap); err != nil {
		return nil, fmt.Errorf("resume %s: %w", snap.SessionID, err)
	}
	return s, nil
}

// Session is one conversation over a workflow. It is not safe for concurrent use.
type Session struct {
	rt *runtime.Session
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.rt.ID() }

// Workflow returns the graph the session walks.
func (s *Session) Workflow() *domain.Workflow { return s.rt.Workflow() }

// Start (re)starts the conversation on the workflow's start node.
func (s *Session) Start(ctx context.Context) (domain.Reply, error) { return s.rt.Start(ctx) }

// Submit processes one user message.
func (s *Session) Submit(ctx context.Context, message string) (domain.Reply, error) {
	return s.rt.Submit(ctx, message)
}

// Reset returns the session to idle and clears its state.
func (s *Session) Reset() { s.rt.Reset() }

// Active reports whether the conversation is in progress.
func (s *Session) Active() bool { return s.rt.Active() }

// CurrentNode returns the node the conversation rests on.
func (s *Session) CurrentNode() (domain.Node, bool) { return s.rt.CurrentNode() }

// Slots returns a copy of the collected slot values.
func (s *Session) Slots() map[string]string { return s.rt.Slots() }

// History returns a copy of the turn history.
func (s *Session) History() []domain.Turn { return s.rt.History() }

// Snapshot captures the session state for persistence.
func (s *Session) Snapshot() *domain.Snapshot { return s.rt.Snapshot() }
