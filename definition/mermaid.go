package definition

import (
	"fmt"
	"strings"
)

// Overlay marks runtime state on a rendered graph.
type Overlay struct {
	// Current is highlighted as the machine's present state.
	Current string
	// Visited states are styled as already seen.
	Visited []string
}

// Mermaid renders the definition as a Mermaid flowchart. Timed transitions
// are labeled with their sojourn timestamp. An optional overlay highlights
// the current and visited states of a running machine.
func (d *Definition) Mermaid(overlay *Overlay) string {
	ids := mermaidIDs(d)

	var sb strings.Builder
	sb.WriteString("graph TD\n")

	initial := d.InitialState()
	for _, s := range d.States {
		safe := ids[s.Name]
		opener, closer := "[", "]"
		if s.Name == initial {
			opener, closer = "((", "))"
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safe, opener, s.Name, closer))

		for _, t := range s.Transitions {
			sb.WriteString(fmt.Sprintf("    %s -- \"after %gs\" --> %s\n",
				safe, t.After, ids[t.To]))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Visited {
			safe := ids[name]
			if safe == "" || seen[safe] {
				continue
			}
			seen[safe] = true
			sb.WriteString(fmt.Sprintf("    class %s visited;\n", safe))
		}
		if id := ids[overlay.Current]; id != "" {
			sb.WriteString(fmt.Sprintf("    class %s current;\n", id))
		}
	}

	return sb.String()
}

// mermaidIDs assigns each declared state an identifier Mermaid accepts.
// Names that sanitize to the same identifier (a.b vs a-b) get a numeric
// suffix in declaration order, so nodes never collapse.
func mermaidIDs(d *Definition) map[string]string {
	ids := make(map[string]string, len(d.States))
	taken := make(map[string]bool, len(d.States))
	for _, s := range d.States {
		safe := sanitizeMermaidID(s.Name)
		for n := 2; taken[safe]; n++ {
			safe = fmt.Sprintf("%s_%d", sanitizeMermaidID(s.Name), n)
		}
		taken[safe] = true
		ids[s.Name] = safe
	}
	return ids
}

func sanitizeMermaidID(name string) string {
	r := strings.NewReplacer(".", "_", "-", "_", "/", "_", " ", "_")
	return r.Replace(name)
}
