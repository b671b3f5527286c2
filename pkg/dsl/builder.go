package dsl

import (
	"fmt"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Builder manages the graph construction.
type Builder struct {
	order []string
	nodes map[string]*NodeBuilder
}

// New creates a new workflow builder.
func New() *Builder {
	return &Builder{
		nodes: make(map[string]*NodeBuilder),
	}
}

// Add creates a new node in the graph.
// If the node already exists, it returns the existing builder.
func (b *Builder) Add(id string) *NodeBuilder {
	if nb, ok := b.nodes[id]; ok {
		return nb
	}
	nb := &NodeBuilder{
		node: domain.Node{ID: id},
	}
	b.nodes[id] = nb
	b.order = append(b.order, id)
	return nb
}

// Build compiles the nodes and their transitions into a Workflow.
// Nodes keep the order in which they were first added.
func (b *Builder) Build() (*domain.Workflow, error) {
	w := domain.NewWorkflow()
	for _, id := range b.order {
		if err := w.AddNode(b.nodes[id].node); err != nil {
			return nil, fmt.Errorf("failed to build workflow: %w", err)
		}
	}
	for _, id := range b.order {
		for _, e := range b.nodes[id].edges {
			if err := w.AddEdge(e.From, e.To, e.Label, e.Output); err != nil {
				return nil, fmt.Errorf("failed to build workflow: %w", err)
			}
		}
	}
	return w, nil
}

// MustBuild is like Build but panics on error. It is meant for fixtures.
func (b *Builder) MustBuild() *domain.Workflow {
	w, err := b.Build()
	if err != nil {
		panic(err)
	}
	return w
}
