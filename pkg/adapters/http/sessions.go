package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CreateSessionRequest is the body of POST /sessions. The body is optional.
type CreateSessionRequest struct {
	Workflow string `json:"workflow,omitempty"`
}

// MessageRequest is the body of POST /sessions/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.svc.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions: creates a session and runs Start.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body CreateSessionRequest
	if err := decodeJSON(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := s.svc.Create(r.Context(), body.Workflow)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTurn(w, res, http.StatusCreated)
}

// GetSession handles GET /sessions/{id}.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	snap, err := s.svc.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartSession handles POST /sessions/{id}/start: restarts the conversation.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTurn(w, res, http.StatusOK)
}

// SubmitMessage handles POST /sessions/{id}/messages.
func (s *Server) SubmitMessage(w http.ResponseWriter, r *http.Request) {
	var body MessageRequest
	if err := decodeJSON(w, r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	res, err := s.svc.Submit(r.Context(), chi.URLParam(r, "id"), body.Message)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTurn(w, res, http.StatusOK)
}

// ResetSession handles POST /sessions/{id}/reset.
func (s *Server) ResetSession(w http.ResponseWriter, r *http.Request) {
	res, err := s.svc.Reset(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeTurn(w, res, http.StatusOK)
}

// GetSessionGraph handles GET /sessions/{id}/graph: the session workflow
// with the current node highlighted.
func (s *Server) GetSessionGraph(w http.ResponseWriter, r *http.Request) {
	src, err := s.svc.SessionGraph(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMermaid(w, src)
}
