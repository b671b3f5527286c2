package dsl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
)

func TestBuilder_SimpleFlow(t *testing.T) {
	b := New()

	b.Add("start").
		Title("Greeting").
		Start("Hello, DSL!").
		Go("ask", "next")

	b.Add("ask").
		Intent("Which {account_type}?").
		Slots("account_type").
		Go("end", "done").
		At(100, 50)

	b.Add("end").
		End("Goodbye!")

	w, err := b.Build()
	require.NoError(t, err)

	start, ok := w.FindNode("start")
	require.True(t, ok)
	assert.Equal(t, domain.NodeTypeStart, start.Type)
	assert.Equal(t, "Greeting", start.Title)
	assert.Equal(t, []string{"ask"}, start.Outputs)

	ask, _ := w.FindNode("ask")
	assert.Equal(t, []string{"account_type"}, ask.RequiredSlots)
	assert.Equal(t, &domain.Position{X: 100, Y: 50}, ask.Position)

	assert.Equal(t, []domain.Edge{
		{From: "start", To: "ask", Label: "next", Output: "ask"},
		{From: "ask", To: "end", Label: "done", Output: "end"},
	}, w.Edges())
}

func TestBuilder_AddReturnsExisting(t *testing.T) {
	b := New()
	b.Add("a").Start("one")
	b.Add("a").Title("A")

	w := b.MustBuild()
	a, _ := w.FindNode("a")
	assert.Equal(t, "one", a.Content)
	assert.Equal(t, "A", a.Title)
}

func TestBuilder_EndDropsOutputs(t *testing.T) {
	b := New()
	b.Add("end").Go("end", "loop").End("bye")

	w := b.MustBuild()
	end, _ := w.FindNode("end")
	assert.Empty(t, end.Outputs)
}

func TestBuilder_InvalidNode(t *testing.T) {
	b := New()
	b.Add("untyped")

	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrInvalidNode)
	assert.Panics(t, func() { b.MustBuild() })
}
