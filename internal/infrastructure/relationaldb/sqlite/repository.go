// Package sqlite provides a SQLite implementation of the RelationalDB interface.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/kintreehq/kintree/internal/domain/entities"
	"github.com/kintreehq/kintree/internal/infrastructure/config"
)

// Repository implements ports.RelationalDB using SQLite.
type Repository struct {
	db   *sql.DB
	path string
}

// NewRepository creates a new SQLite repository.
func NewRepository(cfg config.SQLiteConfig) (*Repository, error) {
	if cfg.Path == "" {
		return nil, errors.New("sqlite path is required")
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}

	// Enable foreign keys for referential integrity
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	// Enable WAL mode for better concurrent read/write performance
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Set busy timeout to avoid "database is locked" errors
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	return &Repository{
		db:   db,
		path: cfg.Path,
	}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// Path returns the database file path.
func (r *Repository) Path() string {
	return r.path
}

// EnsureSchema creates the database schema if it doesn't exist.
// Relationship snapshot order relies on rowid, so relationships are never
// rewritten in place with a new rowid.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	schema := `
	-- People (one row per individual in a tree)
	CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		tree_id TEXT NOT NULL,
		name TEXT NOT NULL,
		normalized_name TEXT NOT NULL,
		legal_name TEXT,
		nickname TEXT,
		gender TEXT,
		birth_date TIMESTAMP,
		death_date TIMESTAMP,
		alive INTEGER,
		photo_id TEXT,
		biography TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(tree_id, normalized_name)
	);
	CREATE INDEX IF NOT EXISTS idx_people_tree ON people(tree_id);
	CREATE INDEX IF NOT EXISTS idx_people_normalized ON people(tree_id, normalized_name);

	-- Relationship edges (directed, typed; parent-like kinds point parent -> child)
	CREATE TABLE IF NOT EXISTS relationships (
		id TEXT PRIMARY KEY,
		from_id TEXT NOT NULL,
		to_id TEXT NOT NULL,
		type TEXT NOT NULL,
		start_date TIMESTAMP,
		end_date TIMESTAMP,
		notes TEXT,
		active INTEGER,
		metadata TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);
	CREATE INDEX IF NOT EXISTS idx_relationships_from ON relationships(from_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_to ON relationships(to_id);
	CREATE INDEX IF NOT EXISTS idx_relationships_type ON relationships(type);
	`

	_, err := r.db.ExecContext(ctx, schema)
	if err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	return nil
}

// SavePerson inserts or updates a person.
func (r *Repository) SavePerson(ctx context.Context, person *entities.Person) error {
	query := `
		INSERT INTO people (id, tree_id, name, normalized_name, legal_name, nickname,
			gender, birth_date, death_date, alive, photo_id, biography, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			normalized_name = excluded.normalized_name,
			legal_name = excluded.legal_name,
			nickname = excluded.nickname,
			gender = excluded.gender,
			birth_date = excluded.birth_date,
			death_date = excluded.death_date,
			alive = excluded.alive,
			photo_id = excluded.photo_id,
			biography = excluded.biography,
			updated_at = excluded.updated_at
	`
	_, err := r.db.ExecContext(ctx, query,
		person.ID,
		person.TreeID,
		person.Name,
		person.NormalizedName,
		nullString(person.LegalName),
		nullString(person.Nickname),
		nullString(string(person.Gender)),
		nullTime(person.BirthDate),
		nullTime(person.DeathDate),
		nullBool(person.Alive),
		nullString(person.PhotoID),
		nullString(person.Biography),
		person.CreatedAt,
		person.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving person: %w", err)
	}
	return nil
}

const personColumns = `id, tree_id, name, normalized_name, legal_name, nickname,
	gender, birth_date, death_date, alive, photo_id, biography, created_at, updated_at`

// FindPersonByID finds a person by ID. Returns nil if not found.
func (r *Repository) FindPersonByID(ctx context.Context, personID string) (*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE id = ?`
	return r.queryPerson(ctx, query, personID)
}

// FindPersonByName finds a person by normalized display name. Returns nil if
// not found.
func (r *Repository) FindPersonByName(ctx context.Context, treeID, name string) (*entities.Person, error) {
	query := `SELECT ` + personColumns + ` FROM people WHERE tree_id = ? AND normalized_name = ?`
	return r.queryPerson(ctx, query, treeID, entities.NormalizeName(name))
}

// queryPerson runs a single-row person query.
func (r *Repository) queryPerson(ctx context.Context, query string, args ...any) (*entities.Person, error) {
	row := r.db.QueryRowContext(ctx, query, args...)
	person, err := scanPerson(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("scanning person: %w", err)
	}
	return person, nil
}

// ListPeople lists people in a tree ordered by name with pagination.
func (r *Repository) ListPeople(ctx context.Context, treeID string, limit, offset int) ([]*entities.Person, error) {
	query := `SELECT ` + personColumns + `
		FROM people
		WHERE tree_id = ?
		ORDER BY name ASC
		LIMIT ? OFFSET ?`
	return r.queryPeople(ctx, query, treeID, limit, offset)
}

// SearchPeople searches people by name pattern.
func (r *Repository) SearchPeople(ctx context.Context, treeID, search string, limit int) ([]*entities.Person, error) {
	pattern := "%" + entities.NormalizeName(search) + "%"
	query := `SELECT ` + personColumns + `
		FROM people
		WHERE tree_id = ? AND normalized_name LIKE ?
		ORDER BY name ASC
		LIMIT ?`
	return r.queryPeople(ctx, query, treeID, pattern, limit)
}

// AllPeople returns every person in the tree in creation order.
func (r *Repository) AllPeople(ctx context.Context, treeID string) ([]entities.Person, error) {
	query := `SELECT ` + personColumns + `
		FROM people
		WHERE tree_id = ?
		ORDER BY rowid ASC`
	pointers, err := r.queryPeople(ctx, query, treeID)
	if err != nil {
		return nil, err
	}
	people := make([]entities.Person, len(pointers))
	for i := range pointers {
		people[i] = *pointers[i]
	}
	return people, nil
}

// queryPeople runs a multi-row person query.
func (r *Repository) queryPeople(ctx context.Context, query string, args ...any) ([]*entities.Person, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying people: %w", err)
	}
	defer rows.Close()

	result := make([]*entities.Person, 0, 16)
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning person: %w", err)
		}
		result = append(result, person)
	}
	return result, rows.Err()
}

// DeletePerson deletes a person by ID.
func (r *Repository) DeletePerson(ctx context.Context, personID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, personID)
	if err != nil {
		return fmt.Errorf("deleting person: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("person not found: %s", personID)
	}
	return nil
}

// CountPeople returns the number of people in a tree.
func (r *Repository) CountPeople(ctx context.Context, treeID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people WHERE tree_id = ?`, treeID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting people: %w", err)
	}
	return count, nil
}

// SaveRelationship inserts or updates a relationship edge.
func (r *Repository) SaveRelationship(ctx context.Context, rel *entities.Relationship) error {
	var metadata sql.NullString
	if rel.Metadata != nil {
		data, err := json.Marshal(rel.Metadata)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		metadata = sql.NullString{String: string(data), Valid: true}
	}

	query := `
		INSERT INTO relationships (id, from_id, to_id, type, start_date, end_date, notes, active, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			from_id = excluded.from_id,
			to_id = excluded.to_id,
			type = excluded.type,
			start_date = excluded.start_date,
			end_date = excluded.end_date,
			notes = excluded.notes,
			active = excluded.active,
			metadata = excluded.metadata
	`
	_, err := r.db.ExecContext(ctx, query,
		rel.ID,
		rel.FromID,
		rel.ToID,
		string(rel.Type),
		nullTime(rel.StartDate),
		nullTime(rel.EndDate),
		nullString(rel.Notes),
		nullBool(rel.Active),
		metadata,
		rel.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving relationship: %w", err)
	}
	return nil
}

const relationshipColumns = `id, from_id, to_id, type, start_date, end_date, notes, active, metadata, created_at`

// FindRelationshipsByPerson finds every edge touching a person, in stored
// order.
func (r *Repository) FindRelationshipsByPerson(ctx context.Context, personID string) ([]entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + `
		FROM relationships
		WHERE from_id = ? OR to_id = ?
		ORDER BY rowid ASC`
	return r.queryRelationships(ctx, query, personID, personID)
}

// FindRelationshipBetween finds an edge of the given type between two
// people, checking both directions. Returns nil if none exists.
func (r *Repository) FindRelationshipBetween(ctx context.Context, aID, bID string, relType entities.RelationType) (*entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + `
		FROM relationships
		WHERE type = ? AND ((from_id = ? AND to_id = ?) OR (from_id = ? AND to_id = ?))
		LIMIT 1`
	rels, err := r.queryRelationships(ctx, query, string(relType), aID, bID, bID, aID)
	if err != nil {
		return nil, err
	}
	if len(rels) == 0 {
		return nil, nil
	}
	return &rels[0], nil
}

// AllRelationships returns every edge in insertion order.
func (r *Repository) AllRelationships(ctx context.Context) ([]entities.Relationship, error) {
	query := `SELECT ` + relationshipColumns + ` FROM relationships ORDER BY rowid ASC`
	return r.queryRelationships(ctx, query)
}

// DeleteRelationship deletes an edge by ID.
func (r *Repository) DeleteRelationship(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting relationship: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("relationship not found: %s", id)
	}
	return nil
}

// DeleteRelationshipsByPerson deletes every edge touching a person.
func (r *Repository) DeleteRelationshipsByPerson(ctx context.Context, personID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM relationships WHERE from_id = ? OR to_id = ?`, personID, personID)
	if err != nil {
		return fmt.Errorf("deleting relationships by person: %w", err)
	}
	return nil
}

// CountRelationships returns the total number of edges.
func (r *Repository) CountRelationships(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM relationships`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting relationships: %w", err)
	}
	return count, nil
}

// queryRelationships is a helper to execute relationship queries.
func (r *Repository) queryRelationships(ctx context.Context, query string, args ...any) ([]entities.Relationship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying relationships: %w", err)
	}
	defer rows.Close()

	relationships := make([]entities.Relationship, 0, 16)
	for rows.Next() {
		rel, err := scanRelationship(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning relationship: %w", err)
		}
		relationships = append(relationships, *rel)
	}
	return relationships, rows.Err()
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanPerson scans one person row.
func scanPerson(row scanner) (*entities.Person, error) {
	var person entities.Person
	var legalName, nickname, gender, photoID, biography sql.NullString
	var birthDate, deathDate sql.NullTime
	var alive sql.NullBool

	err := row.Scan(
		&person.ID,
		&person.TreeID,
		&person.Name,
		&person.NormalizedName,
		&legalName,
		&nickname,
		&gender,
		&birthDate,
		&deathDate,
		&alive,
		&photoID,
		&biography,
		&person.CreatedAt,
		&person.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	person.LegalName = legalName.String
	person.Nickname = nickname.String
	person.Gender = entities.Gender(gender.String)
	person.PhotoID = photoID.String
	person.Biography = biography.String
	if birthDate.Valid {
		t := birthDate.Time
		person.BirthDate = &t
	}
	if deathDate.Valid {
		t := deathDate.Time
		person.DeathDate = &t
	}
	if alive.Valid {
		b := alive.Bool
		person.Alive = &b
	}
	return &person, nil
}

// scanRelationship scans one relationship row.
func scanRelationship(row scanner) (*entities.Relationship, error) {
	var rel entities.Relationship
	var relType string
	var notes, metadata sql.NullString
	var startDate, endDate sql.NullTime
	var active sql.NullBool

	err := row.Scan(
		&rel.ID,
		&rel.FromID,
		&rel.ToID,
		&relType,
		&startDate,
		&endDate,
		&notes,
		&active,
		&metadata,
		&rel.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rel.Type = entities.RelationType(relType)
	rel.Notes = notes.String
	if startDate.Valid {
		t := startDate.Time
		rel.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		rel.EndDate = &t
	}
	if active.Valid {
		b := active.Bool
		rel.Active = &b
	}
	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &rel.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}
	return &rel, nil
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime maps nil to NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

// nullBool maps nil to NULL.
func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
