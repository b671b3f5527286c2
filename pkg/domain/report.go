package domain

// Warning codes produced by the workflow analyzer.
const (
	WarnNoStart           = "no_start"
	WarnMultipleStart     = "multiple_start"
	WarnNoEnd             = "no_end"
	WarnDisconnected      = "disconnected"
	WarnNoPath            = "no_path"
	WarnLoop              = "loop"
	WarnDanglingReference = "dangling_reference"
	WarnDeadEnd           = "dead_end"
)

// Report is the result of the static workflow analysis.
type Report struct {
	NodeCount  int              `json:"node_count"`
	EdgeCount  int              `json:"edge_count"`
	TypeCounts map[NodeType]int `json:"type_counts"`

	StartNodes []string `json:"start_nodes"`
	EndNodes   []string `json:"end_nodes"`

	Disconnected []string     `json:"disconnected"`
	Paths        []PathResult `json:"paths"`
	Loops        []Loop       `json:"loops"`
	Dangling     []Reference  `json:"dangling"`
	DeadEnds     []string     `json:"dead_ends"`
	SlotCoverage []SlotUsage  `json:"slot_coverage"`

	Warnings []Warning `json:"warnings"`
}

// HasWarnings reports whether the analysis found anything to flag.
func (r Report) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// PathResult describes reachability of an end node from one start node.
type PathResult struct {
	Start     string   `json:"start"`
	Reachable bool     `json:"reachable"`
	Path      []string `json:"path,omitempty"`
	// Length is the number of edges in the shortest path.
	Length int `json:"length"`
}

// Loop is a self-loop (A == B) or a 2-cycle between A and B.
type Loop struct {
	A string `json:"a"`
	B string `json:"b"`
}

// IsSelfLoop reports whether the loop has a single node.
func (l Loop) IsSelfLoop() bool {
	return l.A == l.B
}

// Reference is an edge or output with an endpoint that names a missing node.
type Reference struct {
	From string `json:"from"`
	To   string `json:"to"`
	// Via is "edge" or "output".
	Via string `json:"via"`
	// Missing is the endpoint that does not resolve, From or To.
	Missing string `json:"missing"`
}

// MissingSource reports whether the reference's origin is the missing node.
func (r Reference) MissingSource() bool { return r.Missing == r.From && r.Missing != r.To }

// SlotUsage lists the required slots of one intent node.
type SlotUsage struct {
	NodeID string   `json:"node_id"`
	Title  string   `json:"title,omitempty"`
	Slots  []string `json:"slots"`
}

// Warning is one flagged condition.
type Warning struct {
	Code    string `json:"code"`
	NodeID  string `json:"node_id,omitempty"`
	Message string `json:"message"`
}
