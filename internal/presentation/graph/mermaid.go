package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

// GraphOverlay contains session state to highlight on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// OverlayFromSnapshot marks the current node of snap. Visited nodes are not
// recoverable from a snapshot, so hosts that track them fill VisitedNodes.
func OverlayFromSnapshot(snap *domain.Snapshot) *GraphOverlay {
	if !snap.Active() {
		return nil
	}
	return &GraphOverlay{CurrentNode: snap.CurrentNodeID}
}

// GenerateMermaid produces a Mermaid flowchart of w.
// Shapes follow the node type:
// - Start: ((Circle))
// - Intent: [/Parallelogram/], with its required slots
// - Response: [Rectangle]
// - End: ([Stadium])
// Edges whose target does not exist are drawn dotted to a placeholder.
func GenerateMermaid(w *domain.Workflow, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, node := range w.Nodes() {
		opener, closer := "[", "]"
		switch node.Type {
		case domain.NodeTypeStart:
			opener, closer = "((", "))"
		case domain.NodeTypeIntent:
			opener, closer = "[/", "/]"
		case domain.NodeTypeEnd:
			opener, closer = "([", "])"
		}

		label := escape(node.DisplayTitle())
		if len(node.RequiredSlots) > 0 {
			label += " <br/> 🧩 " + escape(strings.Join(node.RequiredSlots, ", "))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(node.ID), opener, label, closer)
	}

	missing := make(map[string]bool)
	for _, e := range w.Edges() {
		from, to := sanitizeMermaidID(e.From), sanitizeMermaidID(e.To)
		_, okFrom := w.FindNode(e.From)
		_, okTo := w.FindNode(e.To)

		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escape(e.Label))
		}
		if !okFrom || !okTo {
			arrow = "-.->"
			if e.Label != "" {
				arrow = fmt.Sprintf("-. \"%s\" .->", escape(e.Label))
			}
			for id, ok := range map[string]bool{e.From: okFrom, e.To: okTo} {
				if !ok {
					missing[id] = true
				}
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", from, arrow, to)
	}

	if len(missing) > 0 {
		sb.WriteString("\n    %% Dangling references\n")
		sb.WriteString("    classDef missing stroke:#c62828,stroke-dasharray:4 2,color:#c62828;\n")
		for _, id := range sortedKeys(missing) {
			safe := sanitizeMermaidID(id)
			fmt.Fprintf(&sb, "    %s{{\"%s ?\"}}\n", safe, escape(id))
			fmt.Fprintf(&sb, "    class %s missing;\n", safe)
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safe := sanitizeMermaidID(id)
			if safe != "" && !visited[safe] {
				visited[safe] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safe)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "'")
}

func sortedKeys(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sanitizeMermaidID(id string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_")
	return r.Replace(id)
}
