package handlers

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/kintreehq/kintree/internal/domain/entities"
)

// fakeRelationalDB is an in-memory RelationalDB for handler tests. It keeps
// relationships in insertion order, matching the sqlite repository.
type fakeRelationalDB struct {
	people        map[string]*entities.Person
	relationships []*entities.Relationship
}

func newFakeRelationalDB() *fakeRelationalDB {
	return &fakeRelationalDB{people: make(map[string]*entities.Person)}
}

func (m *fakeRelationalDB) EnsureSchema(_ context.Context) error { return nil }
func (m *fakeRelationalDB) Close() error                         { return nil }

func (m *fakeRelationalDB) SavePerson(_ context.Context, person *entities.Person) error {
	copied := *person
	m.people[person.ID] = &copied
	return nil
}

func (m *fakeRelationalDB) FindPersonByID(_ context.Context, personID string) (*entities.Person, error) {
	if p, ok := m.people[personID]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, nil
}

func (m *fakeRelationalDB) FindPersonByName(_ context.Context, treeID, name string) (*entities.Person, error) {
	normalized := entities.NormalizeName(name)
	for _, p := range m.people {
		if p.TreeID == treeID && p.NormalizedName == normalized {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (m *fakeRelationalDB) ListPeople(_ context.Context, treeID string, limit, offset int) ([]*entities.Person, error) {
	var result []*entities.Person
	for _, p := range m.allSorted(treeID) {
		copied := p
		result = append(result, &copied)
	}
	if offset >= len(result) {
		return nil, nil
	}
	result = result[offset:]
	if limit < len(result) {
		result = result[:limit]
	}
	return result, nil
}

func (m *fakeRelationalDB) SearchPeople(_ context.Context, treeID, query string, limit int) ([]*entities.Person, error) {
	var result []*entities.Person
	for _, p := range m.allSorted(treeID) {
		if strings.Contains(p.NormalizedName, entities.NormalizeName(query)) {
			copied := p
			result = append(result, &copied)
			if len(result) == limit {
				break
			}
		}
	}
	return result, nil
}

func (m *fakeRelationalDB) AllPeople(_ context.Context, treeID string) ([]entities.Person, error) {
	return m.allSorted(treeID), nil
}

func (m *fakeRelationalDB) allSorted(treeID string) []entities.Person {
	var result []entities.Person
	for _, p := range m.people {
		if p.TreeID == treeID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].NormalizedName < result[j].NormalizedName
	})
	return result
}

func (m *fakeRelationalDB) DeletePerson(_ context.Context, personID string) error {
	if _, ok := m.people[personID]; !ok {
		return fmt.Errorf("person not found: %s", personID)
	}
	delete(m.people, personID)
	return nil
}

func (m *fakeRelationalDB) CountPeople(_ context.Context, treeID string) (int, error) {
	count := 0
	for _, p := range m.people {
		if p.TreeID == treeID {
			count++
		}
	}
	return count, nil
}

func (m *fakeRelationalDB) SaveRelationship(_ context.Context, rel *entities.Relationship) error {
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

func (m *fakeRelationalDB) FindRelationshipsByPerson(_ context.Context, personID string) ([]entities.Relationship, error) {
	var result []entities.Relationship
	for _, rel := range m.relationships {
		if rel.FromID == personID || rel.ToID == personID {
			result = append(result, *rel)
		}
	}
	return result, nil
}

func (m *fakeRelationalDB) FindRelationshipBetween(_ context.Context, aID, bID string, relType entities.RelationType) (*entities.Relationship, error) {
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

func (m *fakeRelationalDB) AllRelationships(_ context.Context) ([]entities.Relationship, error) {
	result := make([]entities.Relationship, 0, len(m.relationships))
	for _, rel := range m.relationships {
		result = append(result, *rel)
	}
	return result, nil
}

func (m *fakeRelationalDB) DeleteRelationship(_ context.Context, id string) error {
	for i, rel := range m.relationships {
		if rel.ID == id {
			m.relationships = append(m.relationships[:i], m.relationships[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("relationship not found: %s", id)
}

func (m *fakeRelationalDB) DeleteRelationshipsByPerson(_ context.Context, personID string) error {
	kept := m.relationships[:0]
	for _, rel := range m.relationships {
		if rel.FromID != personID && rel.ToID != personID {
			kept = append(kept, rel)
		}
	}
	m.relationships = kept
	return nil
}

func (m *fakeRelationalDB) CountRelationships(_ context.Context) (int, error) {
	return len(m.relationships), nil
}

// fakeVectorDB is a no-op VectorDB for handler tests.
type fakeVectorDB struct{}

func (fakeVectorDB) EnsureCollection(_ context.Context, _ uint64) error { return nil }
func (fakeVectorDB) DeleteCollection(_ context.Context) error           { return nil }
func (fakeVectorDB) SaveProfile(_ context.Context, _ *entities.Profile) error {
	return nil
}
func (fakeVectorDB) Search(_ context.Context, _ []float32, _ int) ([]entities.ProfileMatch, error) {
	return nil, nil
}
func (fakeVectorDB) Delete(_ context.Context, _ string) error { return nil }
func (fakeVectorDB) Close() error                             { return nil }

// fakeEmbedder returns a fixed vector for any text.
type fakeEmbedder struct{}

func (fakeEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	return []float32{1}, nil
}

func (fakeEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))
	for i := range texts {
		result[i] = []float32{1}
	}
	return result, nil
}

// fakeMediaStore is a no-op MediaStore for handler tests.
type fakeMediaStore struct{}

func (fakeMediaStore) Attach(_ string, _ io.Reader) (string, error) { return "photo-1", nil }
func (fakeMediaStore) Open(_ string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}
func (fakeMediaStore) Remove(_ string) error { return nil }
func (fakeMediaStore) Exists(_ string) bool  { return false }
