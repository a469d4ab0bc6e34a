package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report summary as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Triangular Paths Report\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Run: %s\n\n", r.RunID))

	// Summary
	s := r.Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Pools | %d |\n", s.Pools))
	sb.WriteString(fmt.Sprintf("| Tokens | %d |\n", s.Tokens))
	sb.WriteString(fmt.Sprintf("| Triples considered | %d |\n", s.Triples))
	sb.WriteString(fmt.Sprintf("| Triples retained | %d |\n", s.Retained))
	sb.WriteString(fmt.Sprintf("| Triples degenerate | %d |\n", s.Degenerate))
	sb.WriteString(fmt.Sprintf("| Triples excluded | %d |\n", s.Excluded))
	sb.WriteString(fmt.Sprintf("| Directed edges | %d |\n", s.Edges))
	sb.WriteString(fmt.Sprintf("| Paths | %d |\n", s.Paths))
	sb.WriteString(fmt.Sprintf("| Distinct cycles | %d |\n", s.Cycles))
	sb.WriteString(fmt.Sprintf("| Workers | %d |\n", s.Workers))
	sb.WriteString(fmt.Sprintf("| Duration (ms) | %d |\n", s.DurationMs))
	sb.WriteString("\n")

	// Top triples
	sb.WriteString("## Top Triples\n\n")
	if len(r.TopTriples) > 0 {
		sb.WriteString("| Triple | Tokens | Edges | Paths |\n")
		sb.WriteString("|--------|--------|-------|-------|\n")
		for _, t := range r.TopTriples {
			sb.WriteString(fmt.Sprintf("| %s | %d,%d,%d | %d | %d |\n",
				t.Label, t.Tokens[0], t.Tokens[1], t.Tokens[2], t.Edges, t.Paths))
		}
	} else {
		sb.WriteString("No triangular paths found.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}
