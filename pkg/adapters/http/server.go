// Package http exposes dialogue sessions over a JSON API.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/input"
	"github.com/aretw0/switchboard/pkg/service"
)

// TurnResponse is returned by every operation that runs a turn.
type TurnResponse = service.Result

// Server implements the HTTP handlers.
type Server struct {
	svc     *service.Service
	streams *StreamManager
	logger  *slog.Logger
}

// Option configures the handler.
type Option func(*options)

type options struct {
	metrics http.Handler
	logger  *slog.Logger
}

// WithMetrics mounts h on /metrics.
func WithMetrics(h http.Handler) Option {
	return func(o *options) { o.metrics = h }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewHandler creates the HTTP handler for svc.
func NewHandler(svc *service.Service, opts ...Option) http.Handler {
	o := options{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	s := &Server{
		svc:     svc,
		streams: NewStreamManager(o.logger),
		logger:  o.logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if o.metrics != nil {
		r.Handle("/metrics", o.metrics)
	}

	r.Get("/workflows", s.ListWorkflows)
	r.Route("/workflow", func(r chi.Router) {
		r.Get("/", s.GetWorkflow)
		r.Get("/analysis", s.GetAnalysis)
		r.Get("/graph", s.GetGraph)
	})
	r.Route("/workflows/{name}", func(r chi.Router) {
		r.Get("/", s.GetWorkflow)
		r.Get("/analysis", s.GetAnalysis)
		r.Get("/graph", s.GetGraph)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/start", s.StartSession)
			r.Post("/messages", s.SubmitMessage)
			r.Post("/reset", s.ResetSession)
			r.Get("/graph", s.GetSessionGraph)
			r.Get("/events", s.SubscribeEvents)
		})
	})

	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":              "switchboard-http",
		"version":          strings.TrimSpace(switchboard.Version),
		"default_workflow": s.svc.DefaultWorkflow(),
	})
}

// statusFor maps a turn error kind to the response status. The body still
// carries the reply.
func statusFor(kind domain.ErrorKind) int {
	switch kind {
	case domain.ErrorKindNone:
		return http.StatusOK
	case domain.ErrorKindNoStartNode, domain.ErrorKindUnknownTargetNode:
		return http.StatusUnprocessableEntity
	case domain.ErrorKindInactiveSession:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps service errors to statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, context.Canceled):
		// The client went away.
		return
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrWorkflowNotFound):
		status = http.StatusNotFound
	case errors.Is(err, input.ErrTooLarge), errors.Is(err, input.ErrInvalidUTF8):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownTargetNode):
		// The stored cursor no longer exists in the workflow.
		status = http.StatusUnprocessableEntity
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeTurn broadcasts the diff and writes the result.
func (s *Server) writeTurn(w http.ResponseWriter, res service.Result, okStatus int) {
	if res.Diff != nil {
		if payload, err := json.Marshal(res.Diff); err == nil {
			s.streams.Broadcast(res.SessionID, string(payload))
		}
	}
	status := statusFor(res.Reply.Error)
	if status == http.StatusOK {
		status = okStatus
	}
	writeJSON(w, status, res)
}
