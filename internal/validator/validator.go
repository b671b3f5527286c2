// Package validator performs the static, read-only analysis of a workflow.
package validator

import (
	"fmt"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Analyze inspects w and reports structural problems. It never mutates w and
// terminates on cyclic graphs.
func Analyze(w *domain.Workflow) domain.Report {
	nodes := w.Nodes()
	edges := w.Edges()

	r := domain.Report{
		NodeCount:  len(nodes),
		EdgeCount:  len(edges),
		TypeCounts: make(map[domain.NodeType]int),
	}
	warn := func(code, nodeID, msg string) {
		r.Warnings = append(r.Warnings, domain.Warning{Code: code, NodeID: nodeID, Message: msg})
	}

	for _, n := range nodes {
		r.TypeCounts[n.Type]++
		switch n.Type {
		case domain.NodeTypeStart:
			r.StartNodes = append(r.StartNodes, n.ID)
		case domain.NodeTypeEnd:
			r.EndNodes = append(r.EndNodes, n.ID)
		case domain.NodeTypeIntent:
			if len(n.RequiredSlots) > 0 {
				r.SlotCoverage = append(r.SlotCoverage, domain.SlotUsage{NodeID: n.ID, Title: n.Title, Slots: n.RequiredSlots})
			}
		}
		if n.Type != domain.NodeTypeEnd && !n.HasOutputs() {
			r.DeadEnds = append(r.DeadEnds, n.ID)
		}
	}

	switch len(r.StartNodes) {
	case 0:
		warn(domain.WarnNoStart, "", "workflow has no start node")
	case 1:
	default:
		warn(domain.WarnMultipleStart, "", fmt.Sprintf("workflow has %d start nodes", len(r.StartNodes)))
	}
	if len(r.EndNodes) == 0 {
		warn(domain.WarnNoEnd, "", "workflow has no end node")
	}

	r.Disconnected = disconnected(nodes, edges)
	for _, id := range r.Disconnected {
		warn(domain.WarnDisconnected, id, fmt.Sprintf("node %q is not connected to any edge", id))
	}

	for _, start := range r.StartNodes {
		p := shortestPath(w, edges, start)
		r.Paths = append(r.Paths, p)
		if !p.Reachable {
			warn(domain.WarnNoPath, start, fmt.Sprintf("no path from %q reaches an end node", start))
		}
	}

	r.Loops = loops(edges)
	for _, l := range r.Loops {
		if l.IsSelfLoop() {
			warn(domain.WarnLoop, l.A, fmt.Sprintf("self-loop on %q", l.A))
		} else {
			warn(domain.WarnLoop, l.A, fmt.Sprintf("loop between %q and %q", l.A, l.B))
		}
	}

	r.Dangling = dangling(w, nodes, edges)
	for _, ref := range r.Dangling {
		if ref.MissingSource() {
			warn(domain.WarnDanglingReference, ref.To, fmt.Sprintf("%s into %q comes from missing node %q", ref.Via, ref.To, ref.From))
			continue
		}
		warn(domain.WarnDanglingReference, ref.From, fmt.Sprintf("%s from %q points at missing node %q", ref.Via, ref.From, ref.To))
	}

	for _, id := range r.DeadEnds {
		warn(domain.WarnDeadEnd, id, fmt.Sprintf("node %q has no outputs and is not an end node", id))
	}

	return r
}
