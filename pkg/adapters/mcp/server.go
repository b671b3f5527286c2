// Package mcp exposes dialogue sessions as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/logging"
	"github.com/aretw0/switchboard/pkg/document"
	"github.com/aretw0/switchboard/pkg/service"
)

// WorkflowURI is the resource exposing the default workflow document.
const WorkflowURI = "switchboard://workflow"

// WorkflowArgs selects a workflow; empty means the default.
type WorkflowArgs struct {
	Workflow string `json:"workflow,omitempty"`
}

// SessionArgs addresses an existing session.
type SessionArgs struct {
	SessionID string `json:"session_id"`
}

// MessageArgs carries one user message.
type MessageArgs struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// WorkflowList is the output of list_workflows.
type WorkflowList struct {
	Workflows []string `json:"workflows"`
	Default   string   `json:"default,omitempty"`
}

// Server wraps the session service as an MCP server.
type Server struct {
	svc       *service.Service
	mcpServer *server.MCPServer
	logger    *slog.Logger
}

// NewServer creates a new MCP Server instance.
func NewServer(svc *service.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		svc:       svc,
		logger:    logger,
		mcpServer: server.NewMCPServer("switchboard-mcp", strings.TrimSpace(switchboard.Version), server.WithRecovery()),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio serves on Stdin/Stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves on addr using SSE until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutting down MCP server")
		_ = sseServer.Shutdown(shutdownCtx)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Create a dialogue session and return the start node's reply."),
		mcp.WithString("workflow", mcp.Description("Workflow name (optional, defaults to the configured workflow)")),
		mcp.WithOutputSchema[service.Result](),
	), mcp.NewStructuredToolHandler(s.handleStartSession))

	s.mcpServer.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Send one user message to a session and return the reply."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID returned by start_session")),
		mcp.WithString("message", mcp.Required(), mcp.Description("User utterance")),
		mcp.WithOutputSchema[service.Result](),
	), mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("reset_session",
		mcp.WithDescription("Clear a session's history and slots, returning it to idle."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session ID")),
		mcp.WithOutputSchema[service.Result](),
	), mcp.NewStructuredToolHandler(s.handleResetSession))

	s.mcpServer.AddTool(mcp.NewTool("analyze_workflow",
		mcp.WithDescription("Run the static analysis on a workflow: counts, start nodes, dead ends, unreachable nodes and slots."),
		mcp.WithString("workflow", mcp.Description("Workflow name (optional)")),
	), s.handleAnalyze)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Render a workflow, or a session's workflow with its current node, as a Mermaid diagram."),
		mcp.WithString("workflow", mcp.Description("Workflow name (optional)")),
		mcp.WithString("session_id", mcp.Description("Highlight this session's current node (optional)")),
	), s.handleGetGraph)

	s.mcpServer.AddTool(mcp.NewTool("list_workflows",
		mcp.WithDescription("List the available workflow names."),
		mcp.WithOutputSchema[WorkflowList](),
	), mcp.NewStructuredToolHandler(s.handleListWorkflows))
}

func (s *Server) handleStartSession(ctx context.Context, _ mcp.CallToolRequest, args WorkflowArgs) (service.Result, error) {
	return s.svc.Create(ctx, args.Workflow)
}

func (s *Server) handleSendMessage(ctx context.Context, _ mcp.CallToolRequest, args MessageArgs) (service.Result, error) {
	if args.SessionID == "" {
		return service.Result{}, errors.New("session_id is required")
	}
	res, err := s.svc.Submit(ctx, args.SessionID, args.Message)
	if err != nil {
		s.logger.Warn("MCP send_message failed", "session_id", args.SessionID, "err", err)
	}
	return res, err
}

func (s *Server) handleResetSession(ctx context.Context, _ mcp.CallToolRequest, args SessionArgs) (service.Result, error) {
	if args.SessionID == "" {
		return service.Result{}, errors.New("session_id is required")
	}
	return s.svc.Reset(ctx, args.SessionID)
}

func (s *Server) handleListWorkflows(ctx context.Context, _ mcp.CallToolRequest, _ struct{}) (WorkflowList, error) {
	names, err := s.svc.ListWorkflows(ctx)
	if err != nil {
		return WorkflowList{}, err
	}
	return WorkflowList{Workflows: names, Default: s.svc.DefaultWorkflow()}, nil
}

func (s *Server) handleAnalyze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	report, err := s.svc.Analyze(ctx, request.GetString("workflow", ""))
	if err != nil {
		return mcp.NewToolResultErrorFromErr("analysis failed", err), nil
	}
	return mcp.NewToolResultJSON(report)
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		src string
		err error
	)
	if id := request.GetString("session_id", ""); id != "" {
		src, err = s.svc.SessionGraph(ctx, id)
	} else {
		src, err = s.svc.Graph(ctx, request.GetString("workflow", ""))
	}
	if err != nil {
		return mcp.NewToolResultErrorFromErr("graph failed", err), nil
	}
	return mcp.NewToolResultText(src), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(WorkflowURI, "Default workflow document",
		mcp.WithMIMEType("application/json"),
	), s.readWorkflow)
}

func (s *Server) readWorkflow(ctx context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	_, w, err := s.svc.Workflow(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("failed to load workflow: %w", err)
	}
	raw, err := json.Marshal(document.Serialize(w))
	if err != nil {
		return nil, err
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      WorkflowURI,
			MIMEType: "application/json",
			Text:     string(raw),
		},
	}, nil
}
