package service_test

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard"
	"github.com/aretw0/switchboard/internal/samples"
	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/input"
	"github.com/aretw0/switchboard/pkg/persistence/middleware"
	"github.com/aretw0/switchboard/pkg/ports"
	"github.com/aretw0/switchboard/pkg/service"
	"github.com/aretw0/switchboard/pkg/session"
)

func newService(t *testing.T) (*service.Service, *memory.Library) {
	t.Helper()
	return newServiceWithStore(t, memory.NewStore())
}

func newServiceWithStore(t *testing.T, store ports.SessionStore) (*service.Service, *memory.Library) {
	t.Helper()
	var seq atomic.Int32
	eng, err := switchboard.New(
		switchboard.WithStrategy(switchboard.StrategyHeuristic),
		switchboard.WithSessionIDs(func() string { return fmt.Sprintf("s-%d", seq.Add(1)) }),
	)
	require.NoError(t, err)

	lib := memory.NewLibrary()
	ctx := context.Background()
	_, err = lib.Put(ctx, "greeting", samples.Greeting())
	require.NoError(t, err)
	_, err = lib.Put(ctx, "banking", samples.Banking())
	require.NoError(t, err)

	svc, err := service.New(service.Config{
		Engine:          eng,
		Workflows:       lib,
		DefaultWorkflow: "greeting",
		Sessions:        session.NewManager(store),
	})
	require.NoError(t, err)
	return svc, lib
}

func TestNew_RequiresCollaborators(t *testing.T) {
	_, err := service.New(service.Config{})
	assert.Error(t, err)
}

func TestService_Conversation(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "s-1", res.SessionID)
	assert.Equal(t, "greeting", res.Workflow)
	assert.Equal(t, "start", res.Reply.NodeID)

	res, err = svc.Submit(ctx, "s-1", "I need help")
	require.NoError(t, err)
	assert.Equal(t, "intent_help", res.Reply.NodeID)
	require.NotNil(t, res.Diff)
	require.NotNil(t, res.Diff.CurrentNodeID)
	assert.Equal(t, "intent_help", *res.Diff.CurrentNodeID)

	snap, err := svc.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "greeting", snap.Workflow)
	assert.Equal(t, "intent_help", snap.CurrentNodeID)
	assert.NotEmpty(t, snap.History)

	res, err = svc.Reset(ctx, "s-1")
	require.NoError(t, err)
	require.NotNil(t, res.Diff)
	assert.True(t, res.Diff.Cleared)

	snap, err = svc.Load(ctx, "s-1")
	require.NoError(t, err)
	assert.False(t, snap.Active())
	assert.Equal(t, "greeting", snap.Workflow)

	res, err = svc.Start(ctx, "s-1")
	require.NoError(t, err)
	assert.Equal(t, "start", res.Reply.NodeID)
}

func TestService_NamedWorkflow(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, "banking")
	require.NoError(t, err)
	assert.Equal(t, "banking", res.Workflow)
	assert.Equal(t, "welcome", res.Reply.NodeID)

	names, err := svc.ListWorkflows(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"banking", "greeting"}, names)

	ids, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s-1"}, ids)
}

func TestService_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)

	_, err = svc.Submit(ctx, "nope", "hi")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	_, err = svc.Create(ctx, "")
	require.NoError(t, err)

	_, err = svc.Submit(ctx, "s-1", strings.Repeat("a", input.DefaultMaxSize+1))
	assert.ErrorIs(t, err, input.ErrTooLarge)

	_, err = svc.Submit(ctx, "s-1", "\xff\xfe")
	assert.ErrorIs(t, err, input.ErrInvalidUTF8)

	require.NoError(t, svc.Delete(ctx, "s-1"))
	_, err = svc.Load(ctx, "s-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestService_TurnErrorsTravelInReply(t *testing.T) {
	svc, lib := newService(t)
	ctx := context.Background()

	noStart := domain.NewWorkflow()
	require.NoError(t, noStart.AddNode(domain.Node{ID: "bye", Type: domain.NodeTypeEnd, Content: "Bye"}))
	_, err := lib.Put(ctx, "no-start", noStart)
	require.NoError(t, err)

	res, err := svc.Create(ctx, "no-start")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorKindNoStartNode, res.Reply.Error)

	// The idle session is kept and reports inactivity on submit.
	res, err = svc.Submit(ctx, res.SessionID, "hello")
	require.NoError(t, err)
	assert.Equal(t, domain.ErrorKindInactiveSession, res.Reply.Error)
}

func TestService_Graphs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	src, err := svc.Graph(ctx, "")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(src, "graph TD"))
	assert.NotContains(t, src, "current")

	_, err = svc.Create(ctx, "")
	require.NoError(t, err)
	src, err = svc.SessionGraph(ctx, "s-1")
	require.NoError(t, err)
	assert.Contains(t, src, "class start current;")

	report, err := svc.Analyze(ctx, "banking")
	require.NoError(t, err)
	assert.Equal(t, []string{"welcome"}, report.StartNodes)
}

func TestService_MaskedSlotsAreAskedAgain(t *testing.T) {
	pii, err := middleware.NewPIIMiddleware([]string{"account_type"})
	require.NoError(t, err)
	svc, _ := newServiceWithStore(t, middleware.Chain(memory.NewStore(), pii))
	ctx := context.Background()

	res, err := svc.Create(ctx, "banking")
	require.NoError(t, err)
	id := res.SessionID
	replies := []domain.Reply{res.Reply}

	submit := func(msg string) domain.Reply {
		t.Helper()
		res, err := svc.Submit(ctx, id, msg)
		require.NoError(t, err)
		replies = append(replies, res.Reply)
		return res.Reply
	}

	submit("balance")
	reply := submit("account_type: savings")
	assert.Equal(t, "Your savings account balance is available in the app. Anything else?", reply.Text)

	reply = submit("welcome")
	assert.Equal(t, "welcome", reply.NodeID)
	submit("balance")

	reply = submit("ok")
	assert.Equal(t, "balance", reply.NodeID)
	assert.Equal(t, "account_type", reply.AwaitingSlot)

	reply = submit("account_type: checking")
	assert.Equal(t, "Your checking account balance is available in the app. Anything else?", reply.Text)

	for _, r := range replies {
		assert.NotContains(t, r.Text, middleware.Mask)
		for _, v := range r.Slots {
			assert.NotEqual(t, middleware.Mask, v)
		}
	}

	snap, err := svc.Load(ctx, id)
	require.NoError(t, err)
	assert.NotContains(t, snap.Slots, "account_type")
}
