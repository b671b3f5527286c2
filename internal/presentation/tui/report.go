package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/switchboard/pkg/domain"
)

// ReportMarkdown renders an analysis report as markdown.
func ReportMarkdown(name string, r domain.Report) string {
	var b strings.Builder

	if name == "" {
		name = "workflow"
	}
	fmt.Fprintf(&b, "# Analysis: %s\n\n", name)

	b.WriteString("| Nodes | Edges | Start | Intent | Response | End |\n")
	b.WriteString("|---|---|---|---|---|---|\n")
	fmt.Fprintf(&b, "| %d | %d | %d | %d | %d | %d |\n\n",
		r.NodeCount, r.EdgeCount,
		r.TypeCounts[domain.NodeTypeStart], r.TypeCounts[domain.NodeTypeIntent],
		r.TypeCounts[domain.NodeTypeResponse], r.TypeCounts[domain.NodeTypeEnd])

	if len(r.Paths) > 0 {
		b.WriteString("## Paths\n\n")
		for _, p := range r.Paths {
			if !p.Reachable {
				fmt.Fprintf(&b, "- `%s` cannot reach an end node\n", p.Start)
				continue
			}
			fmt.Fprintf(&b, "- `%s` reaches an end in %d steps: %s\n", p.Start, p.Length, strings.Join(p.Path, " → "))
		}
		b.WriteString("\n")
	}

	if len(r.SlotCoverage) > 0 {
		b.WriteString("## Slots\n\n| Node | Slots |\n|---|---|\n")
		for _, u := range r.SlotCoverage {
			label := u.NodeID
			if u.Title != "" {
				label = fmt.Sprintf("%s (%s)", u.Title, u.NodeID)
			}
			fmt.Fprintf(&b, "| %s | %s |\n", label, strings.Join(u.Slots, ", "))
		}
		b.WriteString("\n")
	}

	if !r.HasWarnings() {
		b.WriteString("No warnings.\n")
		return b.String()
	}
	fmt.Fprintf(&b, "## Warnings (%d)\n\n", len(r.Warnings))
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "- **%s** %s\n", w.Code, w.Message)
	}
	return b.String()
}
