package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/switchboard/pkg/document"
)

// ListWorkflows handles GET /workflows.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	names, err := s.svc.ListWorkflows(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"workflows": names, "default": s.svc.DefaultWorkflow()})
}

// GetWorkflow handles GET /workflow and GET /workflows/{name}: the
// workflow document.
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	_, wf, err := s.svc.Workflow(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, document.Serialize(wf))
}

// GetAnalysis handles GET /workflow/analysis and GET /workflows/{name}/analysis.
func (s *Server) GetAnalysis(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Analyze(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// GetGraph handles GET /workflow/graph and GET /workflows/{name}/graph.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	src, err := s.svc.Graph(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeMermaid(w, src)
}

func writeMermaid(w http.ResponseWriter, src string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(src))
}
