package http_test

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/samples"
	sbhttp "github.com/aretw0/switchboard/pkg/adapters/http"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/service"
	"github.com/aretw0/switchboard/pkg/session"
)

type fixture struct {
	srv     *httptest.Server
	library *memory.Library
}

func newFixture(t *testing.T, metrics http.Handler) *fixture {
	t.Helper()
	var seq atomic.Int32
	eng, err := switchboard.New(
		switchboard.WithStrategy(switchboard.StrategyHeuristic),
		switchboard.WithSessionIDs(func() string { return fmt.Sprintf("s-%d", seq.Add(1)) }),
	)
	require.NoError(t, err)

	lib := memory.NewLibrary()
	_, err = lib.Put(context.Background(), "greeting", samples.Greeting())
	require.NoError(t, err)

	svc, err := service.New(service.Config{
		Engine:          eng,
		Workflows:       lib,
		DefaultWorkflow: "greeting",
		Sessions:        session.NewManager(memory.NewStore()),
	})
	require.NoError(t, err)

	var opts []sbhttp.Option
	if metrics != nil {
		opts = append(opts, sbhttp.WithMetrics(metrics))
	}
	handler := sbhttp.NewHandler(svc, opts...)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return &fixture{srv: srv, library: lib}
}

func (f *fixture) do(t *testing.T, method, path string, body any) (int, []byte) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, f.srv.URL+path, rd)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, out
}

func (f *fixture) turn(t *testing.T, method, path string, body any) (int, sbhttp.TurnResponse) {
	t.Helper()
	status, raw := f.do(t, method, path, body)
	var tr sbhttp.TurnResponse
	require.NoError(t, json.Unmarshal(raw, &tr), string(raw))
	return status, tr
}

func TestConversation(t *testing.T) {
	f := newFixture(t, nil)

	status, tr := f.turn(t, http.MethodPost, "/sessions", nil)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "s-1", tr.SessionID)
	assert.Equal(t, "greeting", tr.Workflow)
	assert.Equal(t, "Hello! How can I help you today?", tr.Reply.Text)
	require.NotNil(t, tr.Diff)

	status, tr = f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "I want to manage my account"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "intent_account", tr.Reply.NodeID)
	assert.Equal(t, "account intent", tr.Reply.Transition)
	require.NotNil(t, tr.Diff)
	require.NotNil(t, tr.Diff.CurrentNodeID)
	assert.Equal(t, "intent_account", *tr.Diff.CurrentNodeID)

	_, tr = f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "hello"})
	assert.Equal(t, "account_type", tr.Reply.AwaitingSlot)
	assert.Equal(t, "Could you please provide your account_type?", tr.Reply.Text)

	_, tr = f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "my account_type is savings"})
	assert.True(t, tr.Reply.Ended)
	assert.Equal(t, "savings", tr.Reply.Slots["account_type"])

	status, tr = f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "still there?"})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, domain.ErrorKindInactiveSession, tr.Reply.Error)

	status, raw := f.do(t, http.MethodGet, "/sessions/s-1", nil)
	require.Equal(t, http.StatusOK, status)
	var snap domain.Snapshot
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "greeting", snap.Workflow)
	assert.False(t, snap.Active())
}

func TestStartAndReset(t *testing.T) {
	f := newFixture(t, nil)
	f.turn(t, http.MethodPost, "/sessions", nil)

	status, tr := f.turn(t, http.MethodPost, "/sessions/s-1/reset", nil)
	require.Equal(t, http.StatusOK, status)
	require.NotNil(t, tr.Diff)
	assert.True(t, tr.Diff.Cleared)

	status, tr = f.turn(t, http.MethodPost, "/sessions/s-1/start", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "start", tr.Reply.NodeID)
}

func TestErrors(t *testing.T) {
	f := newFixture(t, nil)

	status, _ := f.do(t, http.MethodGet, "/sessions/nope", nil)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodPost, "/sessions/nope/messages", sbhttp.MessageRequest{Message: "hi"})
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = f.do(t, http.MethodPost, "/sessions", sbhttp.CreateSessionRequest{Workflow: "missing"})
	assert.Equal(t, http.StatusNotFound, status)

	f.turn(t, http.MethodPost, "/sessions", nil)
	status, _ = f.do(t, http.MethodPost, "/sessions/s-1/messages", map[string]int{"message": 3})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: strings.Repeat("a", 5000)})
	assert.Equal(t, http.StatusBadRequest, status)

	status, _ = f.do(t, http.MethodDelete, "/sessions/s-1", nil)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = f.do(t, http.MethodGet, "/sessions/s-1", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestWorkflowErrorKinds(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	noStart := domain.NewWorkflow()
	require.NoError(t, noStart.AddNode(domain.Node{ID: "bye", Type: domain.NodeTypeEnd, Content: "Bye"}))
	_, err := f.library.Put(ctx, "no-start", noStart)
	require.NoError(t, err)

	status, tr := f.turn(t, http.MethodPost, "/sessions", sbhttp.CreateSessionRequest{Workflow: "no-start"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, domain.ErrorKindNoStartNode, tr.Reply.Error)

	dangling := domain.NewWorkflow()
	require.NoError(t, dangling.AddNode(domain.Node{ID: "start", Type: domain.NodeTypeStart, Content: "Hi", Outputs: []string{"ghost"}}))
	_, err = f.library.Put(ctx, "dangling", dangling)
	require.NoError(t, err)

	status, tr = f.turn(t, http.MethodPost, "/sessions", sbhttp.CreateSessionRequest{Workflow: "dangling"})
	require.Equal(t, http.StatusCreated, status)

	status, tr = f.turn(t, http.MethodPost, "/sessions/"+tr.SessionID+"/messages", sbhttp.MessageRequest{Message: "go"})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	assert.Equal(t, domain.ErrorKindUnknownTargetNode, tr.Reply.Error)
	assert.Equal(t, "start", tr.Reply.NodeID)
}

func TestWorkflowEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	status, raw := f.do(t, http.MethodGet, "/workflows", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"greeting"`)

	status, raw = f.do(t, http.MethodGet, "/workflow", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), `"intent_account"`)

	status, raw = f.do(t, http.MethodGet, "/workflow/analysis", nil)
	require.Equal(t, http.StatusOK, status)
	var report domain.Report
	require.NoError(t, json.Unmarshal(raw, &report))
	assert.Equal(t, 5, report.NodeCount)
	assert.Equal(t, []string{"start"}, report.StartNodes)

	status, raw = f.do(t, http.MethodGet, "/workflows/greeting/graph", nil)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasPrefix(string(raw), "graph TD"))

	status, _ = f.do(t, http.MethodGet, "/workflows/missing/graph", nil)
	assert.Equal(t, http.StatusNotFound, status)

	f.turn(t, http.MethodPost, "/sessions", nil)
	status, raw = f.do(t, http.MethodGet, "/sessions/s-1/graph", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), "class start current;")
}

func TestHealthInfoCORSAndMetrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("# metrics"))
	})
	f := newFixture(t, metrics)

	status, raw := f.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok"}`, string(raw))

	status, raw = f.do(t, http.MethodGet, "/info", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(raw), switchboard.Version)

	status, _ = f.do(t, http.MethodOptions, "/sessions", nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw = f.do(t, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "# metrics", string(raw))
}

func TestSubscribeEvents_Session(t *testing.T) {
	f := newFixture(t, nil)
	f.turn(t, http.MethodPost, "/sessions", nil)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.srv.URL+"/sessions/s-1/events?watch=node", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		sc := bufio.NewScanner(resp.Body)
		for sc.Scan() {
			lines <- sc.Text()
		}
		close(lines)
	}()

	next := func() string {
		select {
		case l := <-lines:
			return l
		case <-ctx.Done():
			return ""
		}
	}
	require.Equal(t, "event: ping", next())
	require.Equal(t, "data: connected", next())

	// A slot prompt moves nothing, so the node watch filter drops it.
	f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "I want to manage my account"})
	f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "hello"})
	f.turn(t, http.MethodPost, "/sessions/s-1/messages", sbhttp.MessageRequest{Message: "my account_type is savings"})

	var data []string
	for len(data) < 2 {
		l := next()
		if l == "" && ctx.Err() != nil {
			t.Fatal("timed out waiting for events")
		}
		if strings.HasPrefix(l, "data: ") {
			data = append(data, strings.TrimPrefix(l, "data: "))
		}
	}
	assert.Contains(t, data[0], `"current_node_id":"intent_account"`)
	assert.Contains(t, data[1], `"current_node_id":""`)
}
