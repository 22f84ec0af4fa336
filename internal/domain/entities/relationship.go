package entities

import (
	"fmt"
	"time"
)

// RelationType is the kind of a relationship. Explicit kinds are entered by
// the user and persisted; derived kinds are only ever computed by the
// kinship resolver and never stored. The string values double as the on-disk
// representation, so they must not change.
type RelationType string

// Explicit relationship kinds. For the parent-like kinds the edge always
// points parent -> child; guardian and godparent point from the guardian or
// godparent. Spouse, partner, and other are symmetric but stored once.
const (
	RelationParent         RelationType = "parent"
	RelationSpouse         RelationType = "spouse"
	RelationPartner        RelationType = "partner"
	RelationAdoptiveParent RelationType = "adoptive-parent"
	RelationStepParent     RelationType = "step-parent"
	RelationGuardian       RelationType = "guardian"
	RelationGodparent      RelationType = "godparent"
	RelationOther          RelationType = "other"
)

// Derived relationship kinds.
const (
	RelationChild        RelationType = "child"
	RelationSibling      RelationType = "sibling"
	RelationGrandparent  RelationType = "grandparent"
	RelationGrandchild   RelationType = "grandchild"
	RelationUncle        RelationType = "uncle"
	RelationAunt         RelationType = "aunt"
	RelationNephew       RelationType = "nephew"
	RelationNiece        RelationType = "niece"
	RelationCousin       RelationType = "cousin"
	RelationParentInLaw  RelationType = "parent-in-law"
	RelationChildInLaw   RelationType = "child-in-law"
	RelationSiblingInLaw RelationType = "sibling-in-law"
	RelationStepSibling  RelationType = "step-sibling"
)

// ExplicitRelationTypes lists every kind a user may record, in display order.
var ExplicitRelationTypes = []RelationType{
	RelationParent,
	RelationSpouse,
	RelationPartner,
	RelationAdoptiveParent,
	RelationStepParent,
	RelationGuardian,
	RelationGodparent,
	RelationOther,
}

// Label returns the human-readable label for a relationship kind. Every
// member of the enumeration has an entry; a value outside it (e.g. from a
// hand-edited database) is echoed back raw rather than failing, since labels
// are presentation data.
func Label(t RelationType) string {
	switch t {
	case RelationParent:
		return "Parent"
	case RelationSpouse:
		return "Spouse"
	case RelationPartner:
		return "Partner"
	case RelationAdoptiveParent:
		return "Adoptive Parent"
	case RelationStepParent:
		return "Step-Parent"
	case RelationGuardian:
		return "Guardian"
	case RelationGodparent:
		return "Godparent"
	case RelationOther:
		return "Other"
	case RelationChild:
		return "Child"
	case RelationSibling:
		return "Sibling"
	case RelationGrandparent:
		return "Grandparent"
	case RelationGrandchild:
		return "Grandchild"
	case RelationUncle:
		return "Uncle"
	case RelationAunt:
		return "Aunt"
	case RelationNephew:
		return "Nephew"
	case RelationNiece:
		return "Niece"
	case RelationCousin:
		return "Cousin"
	case RelationParentInLaw:
		return "Parent-in-Law"
	case RelationChildInLaw:
		return "Child-in-Law"
	case RelationSiblingInLaw:
		return "Sibling-in-Law"
	case RelationStepSibling:
		return "Step-Sibling"
	default:
		return string(t)
	}
}

// IsSymmetric reports whether a kind has no inherent direction. A symmetric
// edge is stored once but applies to both endpoints equally.
func IsSymmetric(t RelationType) bool {
	switch t {
	case RelationSpouse, RelationPartner, RelationOther:
		return true
	default:
		return false
	}
}

// IsParentChild reports whether a kind orients the edge parent -> child.
func IsParentChild(t RelationType) bool {
	switch t {
	case RelationParent, RelationAdoptiveParent, RelationStepParent:
		return true
	default:
		return false
	}
}

// ParseRelationType validates and converts a string to an explicit
// RelationType. Derived kinds are rejected: they are computed, not recorded.
func ParseRelationType(s string) (RelationType, error) {
	for _, t := range ExplicitRelationTypes {
		if s == string(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("invalid relationship type: %s (valid: parent, spouse, partner, adoptive-parent, step-parent, guardian, godparent, other)", s)
}

// Relationship represents a directed, typed link between two people.
// FromID and ToID reference Person IDs; for parent-like kinds FromID is the
// parent and ToID the child.
type Relationship struct {
	ID        string            `json:"id"`
	FromID    string            `json:"from_id"`
	ToID      string            `json:"to_id"`
	Type      RelationType      `json:"type"`
	StartDate *time.Time        `json:"start_date,omitempty"`
	EndDate   *time.Time        `json:"end_date,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Active    *bool             `json:"active,omitempty"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}
