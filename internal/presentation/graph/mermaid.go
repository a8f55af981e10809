package graph

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/storyviz/internal/visualization"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a story graph.
// It applies semantic styling:
// - Start/End: ((Circle))
// - Intent (user message): [/Parallelogram/]
// - Action: [Rectangle]
func GenerateMermaid(g *visualization.Graph) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	var intents []string
	for _, node := range g.Nodes() {
		safeID := mermaidID(node.ID)

		opener, closer := "[", "]"
		switch node.Kind {
		case visualization.KindStart, visualization.KindEnd:
			opener, closer = "((", "))"
		case visualization.KindIntent:
			opener, closer = "[/", "/]"
			intents = append(intents, safeID)
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(node.Label), closer))
	}

	for _, e := range g.Edges() {
		arrow := "-->"
		if e.Label != "" {
			arrow = fmt.Sprintf("-- \"%s\" -->", escapeMermaidLabel(e.Label))
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", mermaidID(e.From), arrow, mermaidID(e.To)))
	}

	sb.WriteString("\n    classDef start fill:#c8e6c9,stroke:#2e7d32,color:#000;\n")
	sb.WriteString("    classDef stop fill:#ffcdd2,stroke:#c62828,color:#000;\n")
	sb.WriteString("    classDef intent fill:#e1f5fe,stroke:#01579b,color:#000;\n")
	sb.WriteString(fmt.Sprintf("    class %s start;\n", mermaidID(visualization.StartNodeID)))
	if g.HasNode(visualization.EndNodeID) {
		sb.WriteString(fmt.Sprintf("    class %s stop;\n", mermaidID(visualization.EndNodeID)))
	}
	if len(intents) > 0 {
		sb.WriteString(fmt.Sprintf("    class %s intent;\n", strings.Join(intents, ",")))
	}

	return sb.String()
}

// mermaidID avoids bare numbers and the reserved word "end".
func mermaidID(id int) string {
	if id < 0 {
		return "aux" + strconv.Itoa(-id)
	}
	return "n" + strconv.Itoa(id)
}

func escapeMermaidLabel(s string) string {
	s = strings.ReplaceAll(s, "\"", "#quot;")
	return strings.ReplaceAll(s, "\n", " ")
}
