// Package render turns relationship query results into displayable output.
// It consumes resolver snapshots only and holds no relationship logic.
package render

import (
	"fmt"
	"strings"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/kinship"
)

// DOT renders the whole snapshot as a graphviz-compatible digraph. People
// become nodes labelled with name and lifespan; explicit edges become
// labelled arrows. Edges whose endpoints are missing from the snapshot are
// skipped.
func DOT(r *kinship.Resolver) string {
	var b strings.Builder
	b.WriteString("digraph kintree {\n")
	b.WriteString("  rankdir=TB;\n")
	b.WriteString("  node [shape=box, fontname=\"Helvetica\"];\n")

	known := make(map[string]bool)
	for _, p := range r.People() {
		known[p.ID] = true
		fmt.Fprintf(&b, "  %q [label=%q];\n", p.ID, nodeLabel(p))
	}

	for _, e := range r.Relationships() {
		if !known[e.FromID] || !known[e.ToID] {
			continue
		}
		fmt.Fprintf(&b, "  %q -> %q [label=%q];\n", e.FromID, e.ToID, entities.Label(e.Type))
	}

	b.WriteString("}\n")
	return b.String()
}

func nodeLabel(p entities.Person) string {
	if span := p.Lifespan(); span != "" {
		return p.Name + "\n" + span
	}
	return p.Name
}
