package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

// testRelationalDB is an in-memory RelationalDB for service tests. It keeps
// relationships in insertion order, matching the sqlite repository.
type testRelationalDB struct {
	people        map[string]*entities.Person
	relationships []*entities.Relationship

	savePersonErr error
	saveRelErr    error
}

func newTestRelationalDB() *testRelationalDB {
	return &testRelationalDB{people: make(map[string]*entities.Person)}
}

func (m *testRelationalDB) EnsureSchema(_ context.Context) error { return nil }
func (m *testRelationalDB) Close() error                         { return nil }

func (m *testRelationalDB) SavePerson(_ context.Context, person *entities.Person) error {
	if m.savePersonErr != nil {
		return m.savePersonErr
	}
	copied := *person
	m.people[person.ID] = &copied
	return nil
}

func (m *testRelationalDB) FindPersonByID(_ context.Context, personID string) (*entities.Person, error) {
	if p, ok := m.people[personID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (m *testRelationalDB) FindPersonByName(_ context.Context, treeID, name string) (*entities.Person, error) {
	normalized := entities.NormalizeName(name)
	for _, p := range m.people {
		if p.TreeID == treeID && p.NormalizedName == normalized {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *testRelationalDB) ListPeople(_ context.Context, treeID string, limit, offset int) ([]*entities.Person, error) {
	all := m.sortedPeople(treeID)
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (m *testRelationalDB) SearchPeople(_ context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	var result []*entities.Person
	for _, p := range m.sortedPeople(treeID) {
		if strings.Contains(p.NormalizedName, entities.NormalizeName(query)) {
			result = append(result, p)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *testRelationalDB) AllPeople(_ context.Context, treeID string) ([]entities.Person, error) {
	var result []entities.Person
	for _, p := range m.sortedPeople(treeID) {
		result = append(result, *p)
	}
	return result, nil
}

func (m *testRelationalDB) DeletePerson(_ context.Context, personID string) error {
	if _, ok := m.people[personID]; !ok {
		return fmt.Errorf("person not found: %s", personID)
	}
	delete(m.people, personID)
	return nil
}

func (m *testRelationalDB) CountPeople(_ context.Context, treeID string) (int, error) {
	count := 0
	for _, p := range m.people {
		if p.TreeID == treeID {
			count++
		}
	}
	return count, nil
}

func (m *testRelationalDB) sortedPeople(treeID string) []*entities.Person {
	var result []*entities.Person
	for _, p := range m.people {
		if p.TreeID == treeID {
			copied := *p
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NormalizedName < result[j].NormalizedName
	})
	return result
}

func (m *testRelationalDB) SaveRelationship(_ context.Context, rel *entities.Relationship) error {
	if m.saveRelErr != nil {
		return m.saveRelErr
	}
	copied := *rel
	for i := range m.relationships {
		if m.relationships[i].ID == rel.ID {
			m.relationships[i] = &copied
			return nil
		}
	}
	m.relationships = append(m.relationships, &copied)
	return nil
}

func (m *testRelationalDB) FindRelationshipsByPerson(_ context.Context, personID string) ([]entities.Relationship, error) {
	var result []entities.Relationship
	for _, rel := range m.relationships {
		if rel.FromID == personID || rel.ToID == personID {
			result = append(result, *rel)
		}
	}
	return result, nil
}

func (m *testRelationalDB) FindRelationshipBetween(_ context.Context, aID, bID string, relType entities.RelationType) (*entities.Relationship, error) {
	for _, rel := range m.relationships {
		if rel.Type != relType {
			continue
		}
		if (rel.FromID == aID && rel.ToID == bID) || (rel.FromID == bID && rel.ToID == aID) {
			copied := *rel
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *testRelationalDB) AllRelationships(_ context.Context) ([]entities.Relationship, error) {
	result := make([]entities.Relationship, 0, len(m.relationships))
	for _, rel := range m.relationships {
		result = append(result, *rel)
	}
	return result, nil
}

func (m *testRelationalDB) DeleteRelationship(_ context.Context, id string) error {
	for i, rel := range m.relationships {
		if rel.ID == id {
			m.relationships = append(m.relationships[:i], m.relationships[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("relationship not found: %s", id)
}

func (m *testRelationalDB) DeleteRelationshipsByPerson(_ context.Context, personID string) error {
	kept := m.relationships[:0]
	for _, rel := range m.relationships {
		if rel.FromID != personID && rel.ToID != personID {
			kept = append(kept, rel)
		}
	}
	m.relationships = kept
	return nil
}

func (m *testRelationalDB) CountRelationships(_ context.Context) (int, error) {
	return len(m.relationships), nil
}

// testVectorDB is an in-memory VectorDB keyed by person ID.
type testVectorDB struct {
	profiles map[string]entities.Profile
	saveErr  error
}

func newTestVectorDB() *testVectorDB {
	return &testVectorDB{profiles: make(map[string]entities.Profile)}
}

func (m *testVectorDB) EnsureCollection(_ context.Context, _ uint64) error { return nil }
func (m *testVectorDB) DeleteCollection(_ context.Context) error           { return nil }
func (m *testVectorDB) Close() error                                       { return nil }

func (m *testVectorDB) SaveProfile(_ context.Context, profile *entities.Profile) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.profiles[profile.PersonID] = *profile
	return nil
}

func (m *testVectorDB) Search(_ context.Context, _ []float32, limit int) ([]entities.ProfileMatch, error) {
	var matches []entities.ProfileMatch
	for _, p := range m.profiles {
		matches = append(matches, entities.ProfileMatch{Profile: p, Score: 1})
		if len(matches) == limit {
			break
		}
	}
	return matches, nil
}

func (m *testVectorDB) Delete(_ context.Context, personID string) error {
	delete(m.profiles, personID)
	return nil
}

// testEmbedder returns a fixed vector for any text.
type testEmbedder struct {
	embedErr error
}

func (m *testEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := m.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

func (m *testEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{0.1, 0.2, 0.3}
	}
	return result, nil
}

// testMediaStore records attach and remove calls without touching disk.
type testMediaStore struct {
	next      int
	stored    map[string]bool
	attachErr error
}

func newTestMediaStore() *testMediaStore {
	return &testMediaStore{stored: make(map[string]bool)}
}

func (m *testMediaStore) Attach(_ string, _ io.Reader) (string, error) {
	if m.attachErr != nil {
		return "", m.attachErr
	}
	m.next++
	id := fmt.Sprintf("photo-%d", m.next)
	m.stored[id] = true
	return id, nil
}

func (m *testMediaStore) Open(photoID string) (io.ReadCloser, error) {
	if !m.stored[photoID] {
		return nil, errors.New("photo not found")
	}
	return io.NopCloser(strings.NewReader("jpeg")), nil
}

func (m *testMediaStore) Remove(photoID string) error {
	delete(m.stored, photoID)
	return nil
}

func (m *testMediaStore) Exists(photoID string) bool {
	return m.stored[photoID]
}
