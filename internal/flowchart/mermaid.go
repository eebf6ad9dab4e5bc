// Package flowchart lowers a decision-flow graph into textual diagram
// notations. The emitters are pure: malformed input produces best-effort
// output, never an error. A node without an id is skipped; an edge missing
// either endpoint is skipped; an edge pointing at a non-existent node is
// emitted as-is.
package flowchart

import (
	"strings"

	"dndtools/internal/domain"
)

// Mermaid renders the nodes as a Mermaid "graph TD" flowchart. Node
// declarations come first in input order, then all edges grouped by source
// node in input order.
func Mermaid(nodes []domain.FlowNode) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		b.WriteString("  " + n.ID + "[\"" + mermaidLabel(n.Text) + "\"]\n")
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		for _, opt := range n.Options {
			if opt.Next == "" {
				continue
			}
			b.WriteString("  " + n.ID + " -->|\"" + mermaidLabel(opt.Label) + "\"| " + opt.Next + "\n")
		}
	}

	return b.String()
}

// Mermaid has no general escape for double quotes inside labels, so they
// become single quotes. Newlines flatten to spaces.
func mermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\"", "'")
}
