package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/storyviz/internal/visualization"
)

// GenerateDOT renders the story graph as a Graphviz digraph.
func GenerateDOT(g *visualization.Graph) string {
	var sb strings.Builder
	sb.WriteString("digraph stories {\n")
	sb.WriteString("    node [fontsize=12, fontname=\"Helvetica\"];\n")

	for _, node := range g.Nodes() {
		attrs := ""
		switch node.Kind {
		case visualization.KindStart:
			attrs = ", shape=circle, style=filled, fillcolor=green"
		case visualization.KindEnd:
			attrs = ", shape=circle, style=filled, fillcolor=red"
		case visualization.KindIntent:
			attrs = ", shape=rect, style=\"rounded,filled\", fillcolor=lightblue"
		}
		sb.WriteString(fmt.Sprintf("    \"%d\" [label=\"%s\"%s];\n", node.ID, escapeDOT(node.Label), attrs))
	}

	for _, e := range g.Edges() {
		if e.Label != "" {
			sb.WriteString(fmt.Sprintf("    \"%d\" -> \"%d\" [label=\"%s\"];\n", e.From, e.To, escapeDOT(e.Label)))
			continue
		}
		sb.WriteString(fmt.Sprintf("    \"%d\" -> \"%d\";\n", e.From, e.To))
	}

	sb.WriteString("}\n")
	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	return strings.ReplaceAll(s, "\n", "\\n")
}
