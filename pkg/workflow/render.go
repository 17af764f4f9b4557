package workflow

import (
	"fmt"
	"sort"
	"strings"
)

// Mermaid generates a Mermaid flowchart for the workflow graph. Outcome
// transitions are solid edges labelled with the outcome; on_error edges
// are dashed so the happy path stays legible; the terminal marker is a
// single rounded pseudo-node.
func Mermaid(w *Workflow) string {
	var b strings.Builder
	b.WriteString("graph TD\n")

	usesTerminal := false
	for _, s := range w.Steps() {
		label := s.Title
		if label == "" {
			label = s.ID
		}
		fmt.Fprintf(&b, "    %s[\"%s\"]\n", sanitizeID(s.ID), label)
		if s.IsTerminal() {
			usesTerminal = true
		}
	}
	if usesTerminal {
		b.WriteString("    _done((done))\n")
	}

	for _, s := range w.Steps() {
		outcomes := make([]string, 0, len(s.Next))
		for out := range s.Next {
			outcomes = append(outcomes, string(out))
		}
		sort.Strings(outcomes)
		for _, out := range outcomes {
			next := s.Next[Outcome(out)]
			fmt.Fprintf(&b, "    %s -->|\"%s\"| %s\n", sanitizeID(s.ID), out, sanitizeID(next))
		}
		if s.OnError != "" {
			fmt.Fprintf(&b, "    %s -.->|\"on_error\"| %s\n", sanitizeID(s.ID), sanitizeID(s.OnError))
		}
	}

	return b.String()
}

func sanitizeID(s string) string {
	return strings.ReplaceAll(s, "-", "_")
}
