package entities

// Profile is the searchable text document for a person: the display name
// plus the free-text biography, embedded for semantic search. Profiles are
// derived from the person record and rebuilt whenever it changes.
type Profile struct {
	PersonID  string    `json:"person_id"`
	Name      string    `json:"name"`
	Biography string    `json:"biography,omitempty"`
	Embedding []float32 `json:"-"`
}

// ProfileMatch is a search hit with its similarity score.
type ProfileMatch struct {
	Profile Profile `json:"profile"`
	Score   float32 `json:"score"`
}
