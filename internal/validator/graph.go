package validator

import "github.com/aretw0/switchboard/pkg/domain"

// disconnected returns the non-start nodes that no edge touches.
func disconnected(nodes []domain.Node, edges []domain.Edge) []string {
	touched := make(map[string]bool, len(edges)*2)
	for _, e := range edges {
		touched[e.From] = true
		touched[e.To] = true
	}
	var out []string
	for _, n := range nodes {
		if n.Type != domain.NodeTypeStart && !touched[n.ID] {
			out = append(out, n.ID)
		}
	}
	return out
}

// shortestPath runs a breadth-first search over edges from start and stops
// at the first end node. The visited set guarantees termination on cycles.
func shortestPath(w *domain.Workflow, edges []domain.Edge, start string) domain.PathResult {
	adj := make(map[string][]string)
	for _, e := range edges {
		adj[e.From] = append(adj[e.From], e.To)
	}

	result := domain.PathResult{Start: start}
	parent := map[string]string{}
	visited := map[string]bool{start: true}
	queue := []string{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if n, ok := w.FindNode(current); ok && n.Type == domain.NodeTypeEnd {
			result.Reachable = true
			result.Path = rebuild(parent, start, current)
			result.Length = len(result.Path) - 1
			return result
		}

		for _, next := range adj[current] {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = current
			queue = append(queue, next)
		}
	}
	return result
}

func rebuild(parent map[string]string, start, end string) []string {
	path := []string{end}
	for id := end; id != start; {
		id = parent[id]
		path = append(path, id)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// loops reports self-loops and 2-cycles. Longer cycles are not enumerated.
func loops(edges []domain.Edge) []domain.Loop {
	type pair struct{ a, b string }
	forward := make(map[pair]bool, len(edges))
	for _, e := range edges {
		forward[pair{e.From, e.To}] = true
	}

	seen := make(map[pair]bool)
	var out []domain.Loop
	for _, e := range edges {
		key := pair{e.From, e.To}
		if e.From > e.To {
			key = pair{e.To, e.From}
		}
		if seen[key] {
			continue
		}
		if e.IsSelfLoop() || forward[pair{e.To, e.From}] {
			seen[key] = true
			out = append(out, domain.Loop{A: e.From, B: e.To})
		}
	}
	return out
}

// dangling lists edges and outputs that name missing nodes.
func dangling(w *domain.Workflow, nodes []domain.Node, edges []domain.Edge) []domain.Reference {
	exists := func(id string) bool {
		_, ok := w.FindNode(id)
		return ok
	}
	var out []domain.Reference
	for _, e := range edges {
		if !exists(e.From) {
			out = append(out, domain.Reference{From: e.From, To: e.To, Via: "edge", Missing: e.From})
		}
		if !exists(e.To) {
			out = append(out, domain.Reference{From: e.From, To: e.To, Via: "edge", Missing: e.To})
		}
	}
	for _, n := range nodes {
		for _, target := range n.Outputs {
			if !exists(target) {
				out = append(out, domain.Reference{From: n.ID, To: target, Via: "output", Missing: target})
			}
		}
	}
	return out
}
