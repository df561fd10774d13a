package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/graft/pkg/workflow"
)

// GenerateMermaid produces a Mermaid flowchart syntax string from a workflow.
// It applies semantic styling:
// - Trigger: ((Circle))
// - Conditional: {Diamond}
// - Terminal: [[Subroutine]]
// - Default: [Rectangle]
// Conditional edges are labeled with their branch.
func GenerateMermaid(w *workflow.Workflow) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")
	if w == nil {
		return sb.String()
	}

	conditional := map[string]bool{}
	for _, node := range w.Nodes {
		safeID := sanitizeMermaidID(node.Name)

		opener, closer := "[", "]"
		switch {
		case workflow.IsTriggerType(node.Type):
			opener, closer = "((", "))" // Circle
		case node.Type == "n8n-nodes-base.if":
			opener, closer = "{", "}" // Diamond
			conditional[node.Name] = true
		case workflow.IsTerminalType(node.Type):
			opener, closer = "[[", "]]" // Subroutine
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, escapeMermaidLabel(node.Name), closer))
	}

	for _, e := range w.Edges() {
		safeFrom := sanitizeMermaidID(e.From)
		safeTo := sanitizeMermaidID(e.To)

		arrow := "-->"
		if conditional[e.From] {
			// Output 0 is the true branch, output 1 the false branch.
			label := "true"
			if e.Output == 1 {
				label = "false"
			}
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
		}
		sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeFrom, arrow, safeTo))
	}

	return sb.String()
}

func sanitizeMermaidID(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

func escapeMermaidLabel(label string) string {
	return strings.ReplaceAll(label, "\"", "'")
}
