package domain

import "fmt"

// Workflow owns the nodes and edges of a conversation graph.
//
// Nodes keep their insertion order for display. A Workflow has no internal
// locking: concurrent readers are safe only while nobody edits the graph.
type Workflow struct {
	order []string
	nodes map[string]Node
	edges []Edge
}

// NewWorkflow creates an empty workflow.
func NewWorkflow() *Workflow {
	return &Workflow{nodes: make(map[string]Node)}
}

// AddNode validates, normalizes and stores n.
func (w *Workflow) AddNode(n Node) error {
	norm, err := NormalizeNode(n)
	if err != nil {
		return err
	}
	if _, exists := w.nodes[norm.ID]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateNode, norm.ID)
	}
	w.nodes[norm.ID] = norm
	w.order = append(w.order, norm.ID)
	return nil
}

// RemoveNode deletes the node and every edge that references it.
// It reports whether the node existed.
func (w *Workflow) RemoveNode(id string) bool {
	if _, ok := w.nodes[id]; !ok {
		return false
	}
	delete(w.nodes, id)
	for i, nid := range w.order {
		if nid == id {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}
	kept := w.edges[:0]
	for _, e := range w.edges {
		if e.From != id && e.To != id {
			kept = append(kept, e)
		}
	}
	w.edges = kept
	return true
}

// AddEdge appends a directed edge. Endpoints do not have to exist yet;
// dangling references are reported by the analyzer.
func (w *Workflow) AddEdge(from, to, label, output string) error {
	if from == "" || to == "" {
		return fmt.Errorf("%w: edge endpoints must not be empty", ErrInvalidEdge)
	}
	w.edges = append(w.edges, Edge{From: from, To: to, Label: label, Output: output})
	return nil
}

// RemoveEdge deletes every edge from -> to and returns how many were removed.
func (w *Workflow) RemoveEdge(from, to string) int {
	removed := 0
	kept := w.edges[:0]
	for _, e := range w.edges {
		if e.From == from && e.To == to {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	w.edges = kept
	return removed
}

// FindNode returns a copy of the node with the given id.
func (w *Workflow) FindNode(id string) (Node, bool) {
	n, ok := w.nodes[id]
	if !ok {
		return Node{}, false
	}
	return n.clone(), true
}

// OutputsOf resolves the outputs of id in declaration order,
// silently skipping ids that do not name an existing node.
func (w *Workflow) OutputsOf(id string) []Node {
	n, ok := w.nodes[id]
	if !ok {
		return nil
	}
	var out []Node
	for _, target := range n.Outputs {
		if t, ok := w.nodes[target]; ok {
			out = append(out, t.clone())
		}
	}
	return out
}

// Nodes returns all nodes in insertion order.
func (w *Workflow) Nodes() []Node {
	out := make([]Node, 0, len(w.order))
	for _, id := range w.order {
		out = append(out, w.nodes[id].clone())
	}
	return out
}

// Edges returns a copy of all edges.
func (w *Workflow) Edges() []Edge {
	return append([]Edge(nil), w.edges...)
}

// Len returns the number of nodes.
func (w *Workflow) Len() int {
	return len(w.order)
}

// NodesOfType returns the nodes of type t in insertion order.
func (w *Workflow) NodesOfType(t NodeType) []Node {
	var out []Node
	for _, id := range w.order {
		if n := w.nodes[id]; n.Type == t {
			out = append(out, n.clone())
		}
	}
	return out
}

// StartNodes returns every start node. A well-formed workflow has exactly one.
func (w *Workflow) StartNodes() []Node {
	return w.NodesOfType(NodeTypeStart)
}

// EdgeBetween finds the edge from -> to. When output is set, an edge tagged
// with that selector is preferred over an untagged one.
func (w *Workflow) EdgeBetween(from, to, output string) (Edge, bool) {
	var fallback *Edge
	for i := range w.edges {
		e := w.edges[i]
		if e.From != from || e.To != to {
			continue
		}
		if output == "" || e.Output == output {
			return e, true
		}
		if fallback == nil {
			fallback = &w.edges[i]
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return Edge{}, false
}

// Clone returns a deep copy of the workflow.
func (w *Workflow) Clone() *Workflow {
	c := NewWorkflow()
	for _, id := range w.order {
		c.nodes[id] = w.nodes[id].clone()
		c.order = append(c.order, id)
	}
	c.edges = append([]Edge(nil), w.edges...)
	return c
}
