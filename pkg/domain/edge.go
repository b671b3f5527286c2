package domain

// Edge is a directed, labeled transition between two nodes.
type Edge struct {
	From  string `json:"from" yaml:"from"`
	To    string `json:"to" yaml:"to"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`

	// Output correlates the edge with one of the source node's outputs
	// when the source has more than one.
	Output string `json:"output,omitempty" yaml:"output,omitempty"`
}

// IsSelfLoop reports whether the edge points back at its source.
func (e Edge) IsSelfLoop() bool {
	return e.From == e.To
}
