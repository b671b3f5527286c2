package dsl

import "github.com/aretw0/switchboard/pkg/domain"

// NodeBuilder provides a fluent API for configuring a node.
type NodeBuilder struct {
	node  domain.Node
	edges []domain.Edge
}

func (n *NodeBuilder) typed(t domain.NodeType, content string) *NodeBuilder {
	n.node.Type = t
	n.node.Content = content
	return n
}

// Start marks the node as the conversation entry point.
func (n *NodeBuilder) Start(content string) *NodeBuilder {
	return n.typed(domain.NodeTypeStart, content)
}

// Intent marks the node as a slot-collecting step.
func (n *NodeBuilder) Intent(content string) *NodeBuilder {
	return n.typed(domain.NodeTypeIntent, content)
}

// Response marks the node as a plain reply step.
func (n *NodeBuilder) Response(content string) *NodeBuilder {
	return n.typed(domain.NodeTypeResponse, content)
}

// End marks the node as terminal. Outputs added before or after are dropped.
func (n *NodeBuilder) End(content string) *NodeBuilder {
	return n.typed(domain.NodeTypeEnd, content)
}

// Title sets the display title, also used by classifiers.
func (n *NodeBuilder) Title(title string) *NodeBuilder {
	n.node.Title = title
	return n
}

// Slots appends required slot names (intent nodes only).
func (n *NodeBuilder) Slots(names ...string) *NodeBuilder {
	n.node.RequiredSlots = append(n.node.RequiredSlots, names...)
	return n
}

// Go declares target as an output and adds the labeled edge to it.
func (n *NodeBuilder) Go(target, label string) *NodeBuilder {
	n.node.Outputs = append(n.node.Outputs, target)
	n.edges = append(n.edges, domain.Edge{From: n.node.ID, To: target, Label: label, Output: target})
	return n
}

// At sets the display position.
func (n *NodeBuilder) At(x, y float64) *NodeBuilder {
	n.node.Position = &domain.Position{X: x, Y: y}
	return n
}

// Build returns the underlying domain.Node.
func (n *NodeBuilder) Build() domain.Node {
	return n.node
}
