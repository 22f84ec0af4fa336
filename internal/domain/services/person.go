package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/domain/ports"
)

// PersonInput carries the editable fields of a person.
type PersonInput struct {
	Name      string
	LegalName string
	Nickname  string
	Gender    entities.Gender
	BirthDate *time.Time
	DeathDate *time.Time
	Alive     *bool
	Biography string
}

// PersonService manages person records, their profile index entries, and
// their photo assets.
type PersonService struct {
	relationalDB ports.RelationalDB
	vectorDB     ports.VectorDB
	embedder     ports.Embedder
	media        ports.MediaStore
}

// NewPersonService creates a new PersonService.
func NewPersonService(
	relationalDB ports.RelationalDB,
	vectorDB ports.VectorDB,
	embedder ports.Embedder,
	media ports.MediaStore,
) *PersonService {
	return &PersonService{
		relationalDB: relationalDB,
		vectorDB:     vectorDB,
		embedder:     embedder,
		media:        media,
	}
}

// validate checks the editable fields.
func validate(input PersonInput) error {
	if entities.NormalizeName(input.Name) == "" {
		return errors.New("name is required")
	}
	if !entities.ValidGender(input.Gender) {
		return fmt.Errorf("invalid gender: %s (valid: male, female, other)", input.Gender)
	}
	if input.BirthDate != nil && input.DeathDate != nil && input.DeathDate.Before(*input.BirthDate) {
		return errors.New("death date cannot be before birth date")
	}
	return nil
}

// Create adds a new person to a tree. The ID is assigned here and never
// changes afterwards.
func (s *PersonService) Create(ctx context.Context, treeID string, input PersonInput) (*entities.Person, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	if existing, err := s.relationalDB.FindPersonByName(ctx, treeID, input.Name); err != nil {
		return nil, fmt.Errorf("checking existing person: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("person already exists: %s (id: %s)", existing.Name, existing.ID)
	}

	now := time.Now()
	person := &entities.Person{
		ID:             uuid.New().String(),
		TreeID:         treeID,
		Name:           input.Name,
		NormalizedName: entities.NormalizeName(input.Name),
		LegalName:      input.LegalName,
		Nickname:       input.Nickname,
		Gender:         input.Gender,
		BirthDate:      input.BirthDate,
		DeathDate:      input.DeathDate,
		Alive:          input.Alive,
		Biography:      input.Biography,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.relationalDB.SavePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}

	if person.Biography != "" {
		if err := s.indexProfile(ctx, person); err != nil {
			// Rollback the save so a failed index doesn't leave an
			// unsearchable person behind.
			_ = s.relationalDB.DeletePerson(ctx, person.ID)
			return nil, fmt.Errorf("indexing profile: %w", err)
		}
	}

	return person, nil
}

// Update applies new field values to an existing person and refreshes the
// profile index when the biography is present.
func (s *PersonService) Update(ctx context.Context, personID string, input PersonInput) (*entities.Person, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	person, err := s.relationalDB.FindPersonByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("person not found: %s", personID)
	}

	person.Name = input.Name
	person.NormalizedName = entities.NormalizeName(input.Name)
	person.LegalName = input.LegalName
	person.Nickname = input.Nickname
	person.Gender = input.Gender
	person.BirthDate = input.BirthDate
	person.DeathDate = input.DeathDate
	person.Alive = input.Alive
	person.Biography = input.Biography
	person.UpdatedAt = time.Now()

	if err := s.relationalDB.SavePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}

	if person.Biography != "" {
		if err := s.indexProfile(ctx, person); err != nil {
			return nil, fmt.Errorf("indexing profile: %w", err)
		}
	}

	return person, nil
}

// indexProfile embeds the person's profile text and stores it in the vector
// index.
func (s *PersonService) indexProfile(ctx context.Context, person *entities.Person) error {
	text := person.Name
	if person.Biography != "" {
		text = fmt.Sprintf("%s. %s", person.Name, person.Biography)
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("generating embedding: %w", err)
	}

	profile := &entities.Profile{
		PersonID:  person.ID,
		Name:      person.Name,
		Biography: person.Biography,
		Embedding: embedding,
	}
	return s.vectorDB.SaveProfile(ctx, profile)
}

// Delete removes a person along with every relationship touching them, their
// profile index entry, and their photo.
func (s *PersonService) Delete(ctx context.Context, personID string) error {
	person, err := s.relationalDB.FindPersonByID(ctx, personID)
	if err != nil {
		return fmt.Errorf("finding person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("person not found: %s", personID)
	}

	if err := s.relationalDB.DeleteRelationshipsByPerson(ctx, personID); err != nil {
		return fmt.Errorf("deleting person relationships: %w", err)
	}

	if person.Biography != "" {
		if err := s.vectorDB.Delete(ctx, personID); err != nil {
			return fmt.Errorf("deleting profile: %w", err)
		}
	}

	if person.PhotoID != "" {
		if err := s.media.Remove(person.PhotoID); err != nil {
			return fmt.Errorf("removing photo: %w", err)
		}
	}

	if err := s.relationalDB.DeletePerson(ctx, personID); err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}

	return nil
}

// FindByID finds a person by ID. Returns nil if not found.
func (s *PersonService) FindByID(ctx context.Context, personID string) (*entities.Person, error) {
	return s.relationalDB.FindPersonByID(ctx, personID)
}

// FindByName finds a person by display name (case-insensitive). Returns nil
// if not found.
func (s *PersonService) FindByName(ctx context.Context, treeID, name string) (*entities.Person, error) {
	return s.relationalDB.FindPersonByName(ctx, treeID, name)
}

// Resolve finds a person by ID first, falling back to name lookup. Commands
// accept either form.
func (s *PersonService) Resolve(ctx context.Context, treeID, ref string) (*entities.Person, error) {
	person, err := s.relationalDB.FindPersonByID(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if person != nil {
		return person, nil
	}
	person, err = s.relationalDB.FindPersonByName(ctx, treeID, ref)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("person not found: %s", ref)
	}
	return person, nil
}

// List returns people in a tree with pagination.
func (s *PersonService) List(ctx context.Context, treeID string, limit, offset int) ([]*entities.Person, error) {
	return s.relationalDB.ListPeople(ctx, treeID, limit, offset)
}

// Search searches people by name pattern.
func (s *PersonService) Search(ctx context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	return s.relationalDB.SearchPeople(ctx, treeID, query, limit)
}

// Count returns the number of people in a tree.
func (s *PersonService) Count(ctx context.Context, treeID string) (int, error) {
	return s.relationalDB.CountPeople(ctx, treeID)
}

// AttachPhoto stores a photo for a person and records the asset key.
func (s *PersonService) AttachPhoto(ctx context.Context, personID string, src io.Reader) (*entities.Person, error) {
	person, err := s.relationalDB.FindPersonByID(ctx, personID)
	if err != nil {
		return nil, fmt.Errorf("finding person: %w", err)
	}
	if person == nil {
		return nil, fmt.Errorf("person not found: %s", personID)
	}

	if person.PhotoID != "" {
		if err := s.media.Remove(person.PhotoID); err != nil {
			return nil, fmt.Errorf("removing previous photo: %w", err)
		}
	}

	photoID, err := s.media.Attach(personID, src)
	if err != nil {
		return nil, fmt.Errorf("storing photo: %w", err)
	}

	person.PhotoID = photoID
	person.UpdatedAt = time.Now()
	if err := s.relationalDB.SavePerson(ctx, person); err != nil {
		return nil, fmt.Errorf("saving person: %w", err)
	}
	return person, nil
}

// RemovePhoto deletes a person's photo and clears the asset key.
func (s *PersonService) RemovePhoto(ctx context.Context, personID string) error {
	person, err := s.relationalDB.FindPersonByID(ctx, personID)
	if err != nil {
		return fmt.Errorf("finding person: %w", err)
	}
	if person == nil {
		return fmt.Errorf("person not found: %s", personID)
	}
	if person.PhotoID == "" {
		return nil
	}

	if err := s.media.Remove(person.PhotoID); err != nil {
		return fmt.Errorf("removing photo: %w", err)
	}

	person.PhotoID = ""
	person.UpdatedAt = time.Now()
	if err := s.relationalDB.SavePerson(ctx, person); err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}
