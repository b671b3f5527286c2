package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/adapters/memory"
	"github.com/aretw0/switchboard/pkg/domain"
)

func TestLibrary_IsolatesStoredWorkflows(t *testing.T) {
	ctx := context.Background()
	lib := memory.NewLibrary()

	w := domain.NewWorkflow()
	require.NoError(t, w.AddNode(domain.Node{ID: "s", Type: domain.NodeTypeStart}))
	_, err := lib.Put(ctx, "flow", w)
	require.NoError(t, err)

	require.NoError(t, w.AddNode(domain.Node{ID: "e", Type: domain.NodeTypeEnd}))
	got, err := lib.Get(ctx, "flow")
	require.NoError(t, err)
	assert.Equal(t, 1, got.Len())

	lib.Replace(ctx, "flow", w)
	got, err = lib.Get(ctx, "flow")
	require.NoError(t, err)
	assert.Equal(t, 2, got.Len())

	_, err = lib.Put(ctx, "", w)
	assert.Error(t, err)
}
