package domain

import "fmt"

// NodeType discriminates the behavior of a Node.
type NodeType string

const (
	// NodeTypeStart is the entry point of a conversation.
	NodeTypeStart NodeType = "start"
	// NodeTypeIntent collects slots before the conversation advances.
	NodeTypeIntent NodeType = "intent"
	// NodeTypeResponse emits content and waits for the next user turn.
	NodeTypeResponse NodeType = "response"
	// NodeTypeEnd finishes the conversation. It never has outputs.
	NodeTypeEnd NodeType = "end"
)

// Valid reports whether t is one of the known node types.
func (t NodeType) Valid() bool {
	switch t {
	case NodeTypeStart, NodeTypeIntent, NodeTypeResponse, NodeTypeEnd:
		return true
	}
	return false
}

// Position is display metadata kept for round-trips with graph designers.
type Position struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Node represents one step of a conversation.
//
// Only intent nodes carry RequiredSlots and end nodes never carry Outputs;
// NormalizeNode enforces both when a node enters a Workflow.
type Node struct {
	ID    string   `json:"id" yaml:"id"`
	Type  NodeType `json:"type" yaml:"type"`
	Title string   `json:"title,omitempty" yaml:"title,omitempty"`

	// Content is a template. {slot} placeholders are replaced with slot values.
	Content string `json:"content,omitempty" yaml:"content,omitempty"`

	// RequiredSlots is an ordered set of slot names (intent nodes only).
	RequiredSlots []string `json:"required_slots,omitempty" yaml:"required_slots,omitempty"`

	// Outputs lists candidate next node ids in declaration order.
	Outputs []string `json:"outputs,omitempty" yaml:"outputs,omitempty"`

	Position *Position `json:"position,omitempty" yaml:"position,omitempty"`
}

// DisplayTitle returns the title, or the id when the node has none.
func (n Node) DisplayTitle() string {
	if n.Title != "" {
		return n.Title
	}
	return n.ID
}

// HasOutputs reports whether the node declares at least one output.
func (n Node) HasOutputs() bool {
	return len(n.Outputs) > 0
}

// NormalizeNode validates n and returns the canonical form stored by a Workflow.
func NormalizeNode(n Node) (Node, error) {
	if n.ID == "" {
		return Node{}, fmt.Errorf("%w: empty id", ErrInvalidNode)
	}
	if !n.Type.Valid() {
		return Node{}, fmt.Errorf("%w: node %q has unknown type %q", ErrInvalidNode, n.ID, n.Type)
	}

	out := Node{
		ID:      n.ID,
		Type:    n.Type,
		Title:   n.Title,
		Content: n.Content,
	}
	if n.Type == NodeTypeIntent {
		out.RequiredSlots = dedupe(n.RequiredSlots)
	}
	if n.Type != NodeTypeEnd && len(n.Outputs) > 0 {
		out.Outputs = append([]string(nil), n.Outputs...)
	}
	if n.Position != nil {
		p := *n.Position
		out.Position = &p
	}
	return out, nil
}

func dedupe(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

func (n Node) clone() Node {
	c := n
	if n.RequiredSlots != nil {
		c.RequiredSlots = append([]string(nil), n.RequiredSlots...)
	}
	if n.Outputs != nil {
		c.Outputs = append([]string(nil), n.Outputs...)
	}
	if n.Position != nil {
		p := *n.Position
		c.Position = &p
	}
	return c
}
