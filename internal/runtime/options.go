package runtime

import (
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/nlu"
)

// Option configures a Session.
type Option func(*Session)

// WithExtractor sets the slot extractor (default: heuristic patterns).
func WithExtractor(x nlu.SlotExtractor) Option {
	return func(s *Session) {
		if x != nil {
			s.extractor = x
		}
	}
}

// WithClassifier sets the intent classifier (default: keyword scoring).
func WithClassifier(c nlu.IntentClassifier) Option {
	return func(s *Session) {
		if c != nil {
			s.classifier = c
		}
	}
}

// WithInterpolator replaces the slot template renderer.
func WithInterpolator(i Interpolator) Option {
	return func(s *Session) {
		if i != nil {
			s.interpolator = i
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(h domain.LifecycleHooks) Option {
	return func(s *Session) {
		s.hooks = h
	}
}

// WithLogger sets the session logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source used for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func defaults(s *Session) {
	s.extractor = nlu.HeuristicExtractor{}
	s.classifier = nlu.KeywordClassifier{}
	s.interpolator = SlotInterpolator
	s.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	s.now = time.Now
}
