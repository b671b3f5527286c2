package ports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		snap := &domain.Snapshot{
			SessionID:     sessionID,
			CurrentNodeID: "acct",
			Slots:         map[string]string{"account_type": "savings"},
			History: []domain.Turn{
				{Role: domain.RoleAssistant, Content: "Hello!"},
				{Role: domain.RoleUser, Content: "my account_type is savings"},
			},
		}

		require.NoError(t, store.Save(ctx, sessionID, snap), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, snap.CurrentNodeID, loaded.CurrentNodeID)
		assert.Equal(t, "savings", loaded.Slots["account_type"])
		assert.Equal(t, snap.History, loaded.History)
	})

	t.Run("Saved snapshot is isolated", func(t *testing.T) {
		snap := &domain.Snapshot{SessionID: sessionID, CurrentNodeID: "start", Slots: map[string]string{"a": "1"}}
		require.NoError(t, store.Save(ctx, sessionID, snap))
		snap.Slots["a"] = "mutated"

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "1", loaded.Slots["a"])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, &domain.Snapshot{SessionID: sessionID}))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, &domain.Snapshot{SessionID: id1}))
		require.NoError(t, store.Save(ctx, id2, &domain.Snapshot{SessionID: id2}))
		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunWorkflowRepositoryContract verifies a WorkflowRepository implementation.
// The repository must be empty when the contract starts.
func RunWorkflowRepositoryContract(t *testing.T, repo WorkflowRepository) {
	ctx := context.Background()

	build := func() *domain.Workflow {
		w := domain.NewWorkflow()
		require.NoError(t, w.AddNode(domain.Node{ID: "start", Type: domain.NodeTypeStart, Content: "Hi", Outputs: []string{"bye"}}))
		require.NoError(t, w.AddNode(domain.Node{ID: "bye", Type: domain.NodeTypeEnd, Content: "Bye"}))
		require.NoError(t, w.AddEdge("start", "bye", "end", ""))
		return w
	}

	t.Run("Put and Get", func(t *testing.T) {
		name, err := repo.Put(ctx, "greeting", build())
		require.NoError(t, err)
		assert.Equal(t, "greeting", name)

		got, err := repo.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, build().Nodes(), got.Nodes())
		assert.Equal(t, build().Edges(), got.Edges())
	})

	t.Run("Duplicate names are disambiguated", func(t *testing.T) {
		name, err := repo.Put(ctx, "greeting", build())
		require.NoError(t, err)
		assert.Equal(t, "greeting (1)", name)

		name, err = repo.Put(ctx, "greeting", build())
		require.NoError(t, err)
		assert.Equal(t, "greeting (2)", name)
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := repo.Get(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrWorkflowNotFound)
	})

	t.Run("List", func(t *testing.T) {
		names, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"greeting", "greeting (1)", "greeting (2)"}, names)
	})
}
