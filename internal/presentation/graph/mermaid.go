// Package graph renders a protocol's dependency graph as a Mermaid
// flowchart for documentation and CLI output.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/weft/pkg/protocol"
)

// Overlay contains dynamic session state to visualize on the graph.
type Overlay struct {
	ExecutedSteps []string
}

// GenerateMermaid produces Mermaid flowchart syntax from a protocol.
// Semantic shapes:
//   - initial step: ((circle))
//   - terminal step: [[subroutine]]
//   - default: [rectangle]
//
// Gate dependencies render as solid arrows from the gate to the dependent
// step; mapping sources render as dotted arrows labeled with the mapped
// path. Executed steps from the overlay are styled.
func GenerateMermaid(p *protocol.Protocol, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, step := range p.Steps() {
		safeID := sanitizeMermaidID(step.Name())

		opener, closer := "[", "]"
		switch {
		case step.Name() == p.Initial():
			opener, closer = "((", "))"
		case p.IsTerminalStep(step.Name()):
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", safeID, opener, step.Name(), closer)

		if gate := step.DependsOn(); gate != "" {
			fmt.Fprintf(&sb, "    %s --> %s\n", sanitizeMermaidID(gate), safeID)
		}
		if ms, ok := step.(*protocol.MappedStep); ok {
			for _, field := range sortedFields(ms.Mapping()) {
				m := ms.Mapping()[field]
				// The gate edge already covers mappings sourced from the
				// gate step; dotted edges mark sibling sources only.
				if m.Step == step.DependsOn() {
					continue
				}
				fmt.Fprintf(&sb, "    %s -. \"%s\" .-> %s\n", sanitizeMermaidID(m.Step), m.Path, safeID)
			}
		}
	}

	if overlay != nil && len(overlay.ExecutedSteps) > 0 {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef executed fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		seen := make(map[string]bool)
		for _, name := range overlay.ExecutedSteps {
			safeID := sanitizeMermaidID(name)
			if safeID != "" && !seen[safeID] {
				seen[safeID] = true
				fmt.Fprintf(&sb, "    class %s executed;\n", safeID)
			}
		}
	}

	return sb.String()
}

// sortedFields returns mapping field names in sorted order so output is
// deterministic.
func sortedFields(m map[string]protocol.FieldMapping) []string {
	fields := make([]string, 0, len(m))
	for f := range m {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
