// Package kinship derives relationships between people from the explicitly
// recorded relationship edges: children from parent edges, siblings from
// shared parents, grandparents and grandchildren from two parent hops.
package kinship

import (
	"github.com/kintreehq/kintree/internal/domain/entities"
)

// Relation is one relationship a person has, as seen from that person's
// point of view. Derived marks relationships that were inferred rather than
// explicitly recorded.
type Relation struct {
	Person  entities.Person       `json:"person"`
	Type    entities.RelationType `json:"type"`
	Derived bool                  `json:"derived"`
}

// Resolver answers relationship queries over an immutable snapshot of people
// and relationship edges. It performs no I/O and never mutates the snapshot,
// so concurrent queries are safe. Every query recomputes from the snapshot;
// callers must build a new Resolver after the dataset changes.
type Resolver struct {
	people   []entities.Person
	edges    []entities.Relationship
	byID     map[string]int   // person ID -> index into people
	incident map[string][]int // person ID -> indices into edges, stored order
}

// NewResolver builds a resolver over a snapshot. No validation is performed:
// edges referencing unknown person IDs are tolerated and simply never
// produce a visible relationship for the missing side.
func NewResolver(people []entities.Person, edges []entities.Relationship) *Resolver {
	r := &Resolver{
		people:   people,
		edges:    edges,
		byID:     make(map[string]int, len(people)),
		incident: make(map[string][]int, len(people)),
	}
	for i := range people {
		r.byID[people[i].ID] = i
	}
	for i := range edges {
		r.incident[edges[i].FromID] = append(r.incident[edges[i].FromID], i)
		if edges[i].ToID != edges[i].FromID {
			r.incident[edges[i].ToID] = append(r.incident[edges[i].ToID], i)
		}
	}
	return r
}

// People returns the snapshot's people in their original order.
func (r *Resolver) People() []entities.Person {
	return r.people
}

// Relationships returns the snapshot's edges in stored order.
func (r *Resolver) Relationships() []entities.Relationship {
	return r.edges
}

// person resolves an ID against the snapshot.
func (r *Resolver) person(id string) (entities.Person, bool) {
	i, ok := r.byID[id]
	if !ok {
		return entities.Person{}, false
	}
	return r.people[i], true
}

// suppressionKey identifies one logical relationship: counterpart ID plus
// kind tag. Used to avoid listing the same relationship twice across the
// explicit and derived passes.
func suppressionKey(personID string, t entities.RelationType) string {
	return personID + "-" + string(t)
}

// RelationshipsFor returns every relationship personID has, explicit edges
// first (re-expressed from personID's perspective) followed by derived ones.
// Within each pass, order follows the stored edge order. personID itself
// need not exist in the snapshot; only counterparts are resolved.
func (r *Resolver) RelationshipsFor(personID string) []Relation {
	relations := make([]Relation, 0, len(r.incident[personID]))
	seen := make(map[string]bool)

	emit := func(counterpartID string, t entities.RelationType, derived bool) {
		p, ok := r.person(counterpartID)
		if !ok {
			return
		}
		seen[suppressionKey(counterpartID, t)] = true
		relations = append(relations, Relation{Person: p, Type: t, Derived: derived})
	}

	// Explicit pass. Each incident edge is considered from both ends so that
	// a self-referential edge behaves like the raw double-sided scan.
	for _, i := range r.incident[personID] {
		e := &r.edges[i]
		if e.FromID == personID {
			if entities.IsParentChild(e.Type) {
				emit(e.ToID, entities.RelationChild, false)
			} else {
				emit(e.ToID, e.Type, false)
			}
		}
		if e.ToID == personID {
			switch {
			case entities.IsParentChild(e.Type):
				emit(e.FromID, e.Type, false)
			case entities.IsSymmetric(e.Type):
				if !seen[suppressionKey(e.FromID, e.Type)] {
					emit(e.FromID, e.Type, false)
				}
			default:
				emit(e.FromID, e.Type, false)
			}
		}
	}

	// Derived pass. Each candidate is suppressed when the same counterpart
	// already appears under the same kind.
	for _, sibling := range r.Siblings(personID) {
		if !seen[suppressionKey(sibling.ID, entities.RelationSibling)] {
			emit(sibling.ID, entities.RelationSibling, true)
		}
	}
	for _, parent := range r.Parents(personID) {
		for _, grandparent := range r.Parents(parent.ID) {
			if !seen[suppressionKey(grandparent.ID, entities.RelationGrandparent)] {
				emit(grandparent.ID, entities.RelationGrandparent, true)
			}
		}
	}
	for _, child := range r.Children(personID) {
		for _, grandchild := range r.Children(child.ID) {
			if !seen[suppressionKey(grandchild.ID, entities.RelationGrandchild)] {
				emit(grandchild.ID, entities.RelationGrandchild, true)
			}
		}
	}

	return relations
}

// Parents returns the people recorded as a parent of personID (parent,
// adoptive-parent, or step-parent edges pointing at personID), in stored
// edge order.
func (r *Resolver) Parents(personID string) []entities.Person {
	var parents []entities.Person
	for _, i := range r.incident[personID] {
		e := &r.edges[i]
		if e.ToID != personID || !entities.IsParentChild(e.Type) {
			continue
		}
		if p, ok := r.person(e.FromID); ok {
			parents = append(parents, p)
		}
	}
	return parents
}

// Children returns the people personID is recorded as a parent of, in stored
// edge order.
func (r *Resolver) Children(personID string) []entities.Person {
	var children []entities.Person
	for _, i := range r.incident[personID] {
		e := &r.edges[i]
		if e.FromID != personID || !entities.IsParentChild(e.Type) {
			continue
		}
		if p, ok := r.person(e.ToID); ok {
			children = append(children, p)
		}
	}
	return children
}

// Spouses returns everyone connected to personID by a spouse or partner edge
// in either direction, in stored edge order.
func (r *Resolver) Spouses(personID string) []entities.Person {
	var spouses []entities.Person
	for _, i := range r.incident[personID] {
		e := &r.edges[i]
		if e.Type != entities.RelationSpouse && e.Type != entities.RelationPartner {
			continue
		}
		counterpartID := e.ToID
		if e.ToID == personID {
			counterpartID = e.FromID
		}
		if p, ok := r.person(counterpartID); ok {
			spouses = append(spouses, p)
		}
	}
	return spouses
}

// Spouse returns the first spouse or partner found, or nil if there is none.
// Additional spouse edges beyond the first are ignored here; use Spouses to
// see all of them.
func (r *Resolver) Spouse(personID string) *entities.Person {
	spouses := r.Spouses(personID)
	if len(spouses) == 0 {
		return nil
	}
	return &spouses[0]
}

// Siblings returns every other person in the snapshot who shares at least
// one recorded parent with personID, in snapshot order. A person with no
// recorded parents has no siblings: an empty parent set never matches.
func (r *Resolver) Siblings(personID string) []entities.Person {
	own := r.Parents(personID)
	if len(own) == 0 {
		return nil
	}
	ownIDs := make(map[string]bool, len(own))
	for i := range own {
		ownIDs[own[i].ID] = true
	}

	var siblings []entities.Person
	for i := range r.people {
		other := r.people[i]
		if other.ID == personID {
			continue
		}
		for _, parent := range r.Parents(other.ID) {
			if ownIDs[parent.ID] {
				siblings = append(siblings, other)
				break
			}
		}
	}
	return siblings
}
