package flowchart

import (
	"strings"

	"dndtools/internal/domain"
)

// Dot renders the nodes as a Graphviz digraph with box-shaped nodes,
// following the same ordering and skip rules as Mermaid.
func Dot(nodes []domain.FlowNode) string {
	var b strings.Builder
	b.WriteString("digraph DecisionFlow {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, fontname=Helvetica];\n")
	b.WriteString("  edge [fontname=Helvetica];\n")

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		b.WriteString("  " + n.ID + " [label=\"" + dotLabel(n.Text) + "\"];\n")
	}

	for _, n := range nodes {
		if n.ID == "" {
			continue
		}
		for _, opt := range n.Options {
			if opt.Next == "" {
				continue
			}
			b.WriteString("  " + n.ID + " -> " + opt.Next + " [label=\"" + dotLabel(opt.Label) + "\"];\n")
		}
	}

	b.WriteString("}\n")
	return b.String()
}

func dotLabel(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return strings.ReplaceAll(s, "\n", " ")
}
