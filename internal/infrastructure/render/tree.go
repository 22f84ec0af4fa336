package render

import (
	"strings"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/kinship"
)

// Layout holds per-render traversal state. A fresh Layout is created for each
// render, so concurrent renders never share visited sets.
type Layout struct {
	maxDepth int
	visited  map[string]bool
}

// NewLayout creates a layout that stops after maxDepth generations.
func NewLayout(maxDepth int) *Layout {
	return &Layout{
		maxDepth: maxDepth,
		visited:  make(map[string]bool),
	}
}

// Ancestors renders the ancestor tree of a person, one generation per level.
func (l *Layout) Ancestors(r *kinship.Resolver, person entities.Person) string {
	var b strings.Builder
	b.WriteString(nodeLine(person))
	b.WriteString("\n")
	l.visited[person.ID] = true
	l.walk(&b, r, person.ID, "", 1, r.Parents)
	return b.String()
}

// Descendants renders the descendant tree of a person.
func (l *Layout) Descendants(r *kinship.Resolver, person entities.Person) string {
	var b strings.Builder
	b.WriteString(nodeLine(person))
	b.WriteString("\n")
	l.visited[person.ID] = true
	l.walk(&b, r, person.ID, "", 1, r.Children)
	return b.String()
}

// walk recursively renders one generation using next to pick the people on
// the following level. Visited people are rendered once and not expanded
// again, which keeps cyclic data from recursing forever.
func (l *Layout) walk(b *strings.Builder, r *kinship.Resolver, personID, indent string, depth int, next func(string) []entities.Person) {
	if depth > l.maxDepth {
		return
	}

	people := next(personID)
	for i, p := range people {
		isLast := i == len(people)-1

		prefix := "+-"
		childIndent := indent + "|  "
		if isLast {
			prefix = "\\-"
			childIndent = indent + "   "
		}

		b.WriteString(indent + prefix + " " + nodeLine(p) + "\n")

		if l.visited[p.ID] {
			continue
		}
		l.visited[p.ID] = true
		l.walk(b, r, p.ID, childIndent, depth+1, next)
	}
}

func nodeLine(p entities.Person) string {
	if span := p.Lifespan(); span != "" {
		return p.Name + " (" + span + ")"
	}
	return p.Name
}
