package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/dewey/internal/domain"
)

//go:embed schema.sql
var schema string

// Store reads the classification table
type Store struct {
	db *sql.DB
}

// New opens the database at dbPath, creating the table if needed
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

const entryColumns = `section_code, section_description, division_code, division_description, class_code, class_description`

func scanEntry(row interface{ Scan(...any) error }) (domain.HierarchyEntry, error) {
	var e domain.HierarchyEntry
	err := row.Scan(
		&e.SectionCode, &e.SectionDescription,
		&e.DivisionCode, &e.DivisionDescription,
		&e.ClassCode, &e.ClassDescription,
	)
	return e, err
}

// LoadEntries returns every section ordered by code
func (s *Store) LoadEntries() ([]domain.HierarchyEntry, error) {
	rows, err := s.db.Query("SELECT " + entryColumns + " FROM classification ORDER BY section_code")
	if err != nil {
		return nil, fmt.Errorf("load entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.HierarchyEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// GetSection retrieves a section by its 3-digit code
func (s *Store) GetSection(code string) (*domain.HierarchyEntry, error) {
	e, err := scanEntry(s.db.QueryRow(
		"SELECT "+entryColumns+" FROM classification WHERE section_code = ?",
		code,
	))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("section %s: %w", code, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get section: %w", err)
	}
	return &e, nil
}

// DivisionsByClass lists the divisions under a class
func (s *Store) DivisionsByClass(classCode string) ([]domain.Node, error) {
	return s.listNodes(`
		SELECT DISTINCT division_code, division_description
		FROM classification
		WHERE class_code = ?
		ORDER BY division_code
	`, classCode)
}

// SectionsByDivision lists the sections under a division
func (s *Store) SectionsByDivision(divisionCode string) ([]domain.Node, error) {
	return s.listNodes(`
		SELECT section_code, section_description
		FROM classification
		WHERE division_code = ?
		ORDER BY section_code
	`, divisionCode)
}

func (s *Store) listNodes(query string, code string) ([]domain.Node, error) {
	rows, err := s.db.Query(query, code)
	if err != nil {
		return nil, fmt.Errorf("list nodes: %w", err)
	}
	defer rows.Close()

	var nodes []domain.Node
	for rows.Next() {
		var n domain.Node
		if err := rows.Scan(&n.Code, &n.Description); err != nil {
			return nil, fmt.Errorf("scan node: %w", err)
		}
		nodes = append(nodes, n)
	}

	return nodes, rows.Err()
}

// Search matches codes and descriptions across all three levels
func (s *Store) Search(query string, limit int) ([]domain.SearchHit, error) {
	rows, err := s.db.Query(`
		SELECT code, title, level FROM (
			SELECT DISTINCT class_code AS code, class_description AS title, 'class' AS level FROM classification
			UNION
			SELECT DISTINCT division_code, division_description, 'division' FROM classification
			UNION
			SELECT section_code, section_description, 'section' FROM classification
		)
		WHERE code LIKE ?1 OR title LIKE ?1
		ORDER BY code, level
		LIMIT ?2
	`, "%"+query+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	var hits []domain.SearchHit
	for rows.Next() {
		var h domain.SearchHit
		if err := rows.Scan(&h.Code, &h.Title, &h.Level); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		h.Display = h.Code + " " + h.Title
		hits = append(hits, h)
	}

	return hits, rows.Err()
}
