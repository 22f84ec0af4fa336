package entities

import (
	"strings"
	"time"
)

// Gender is the optional gender of a person. An empty value means
// unspecified.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// ValidGender reports whether g is empty or one of the known values.
func ValidGender(g Gender) bool {
	switch g {
	case "", GenderMale, GenderFemale, GenderOther:
		return true
	default:
		return false
	}
}

// Person represents a single individual in a family tree. The ID is
// assigned once at creation and never changes; everything else is editable
// through the person service.
type Person struct {
	ID             string     `json:"id"`
	TreeID         string     `json:"tree_id"`
	Name           string     `json:"name"`            // Display name (e.g., "Alice Hart")
	NormalizedName string     `json:"normalized_name"` // Lowercase for matching (e.g., "alice hart")
	LegalName      string     `json:"legal_name,omitempty"`
	Nickname       string     `json:"nickname,omitempty"`
	Gender         Gender     `json:"gender,omitempty"`
	BirthDate      *time.Time `json:"birth_date,omitempty"`
	DeathDate      *time.Time `json:"death_date,omitempty"`
	Alive          *bool      `json:"alive,omitempty"`
	PhotoID        string     `json:"photo_id,omitempty"` // Asset key owned by the media store
	Biography      string     `json:"biography,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NormalizeName converts a name to lowercase for case-insensitive matching.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Lifespan formats the birth and death years for display, e.g. "1932-2001",
// "1932-", or "" when neither date is known.
func (p *Person) Lifespan() string {
	if p.BirthDate == nil && p.DeathDate == nil {
		return ""
	}
	var b strings.Builder
	if p.BirthDate != nil {
		b.WriteString(p.BirthDate.Format("2006"))
	}
	b.WriteString("-")
	if p.DeathDate != nil {
		b.WriteString(p.DeathDate.Format("2006"))
	}
	return b.String()
}
