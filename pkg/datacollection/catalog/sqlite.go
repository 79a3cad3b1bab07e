package catalog

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteCatalog persists catalog entries to SQLite.
// It is suitable for single-process production use.
type SQLiteCatalog struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Compile-time interface check.
var _ Catalog = (*SQLiteCatalog)(nil)

// NewSQLiteCatalog opens or creates a catalog database.
// The path should be a file path (e.g., "./cycles.db") or ":memory:" for testing.
func NewSQLiteCatalog(path string) (*SQLiteCatalog, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// A :memory: database exists per connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS cycles (
			collection TEXT NOT NULL,
			cycle INTEGER NOT NULL,
			time REAL NOT NULL,
			domains INTEGER NOT NULL,
			root_path TEXT NOT NULL,
			save_id TEXT NOT NULL,
			saved_at TEXT NOT NULL,
			PRIMARY KEY (collection, cycle)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &SQLiteCatalog{db: db}, nil
}

// Record implements Catalog.
func (s *SQLiteCatalog) Record(e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	_, err := s.db.Exec(`
		INSERT INTO cycles (collection, cycle, time, domains, root_path, save_id, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, cycle) DO UPDATE SET
			time = excluded.time,
			domains = excluded.domains,
			root_path = excluded.root_path,
			save_id = excluded.save_id,
			saved_at = excluded.saved_at
	`, e.Collection, e.Cycle, e.Time, e.Domains, e.RootPath, e.SaveID,
		e.SavedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("record cycle: %w", err)
	}
	return nil
}

const selectEntry = `SELECT collection, cycle, time, domains, root_path, save_id, saved_at FROM cycles`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (Entry, error) {
	var e Entry
	var savedAt string
	if err := row.Scan(&e.Collection, &e.Cycle, &e.Time, &e.Domains, &e.RootPath, &e.SaveID, &savedAt); err != nil {
		return Entry{}, err
	}
	e.SavedAt, _ = time.Parse(time.RFC3339Nano, savedAt)
	return e, nil
}

// Get implements Catalog.
func (s *SQLiteCatalog) Get(collection string, cycle int) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrClosed
	}

	e, err := scanEntry(s.db.QueryRow(selectEntry+`
		WHERE collection = ? AND cycle = ?
	`, collection, cycle))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("get cycle: %w", err)
	}
	return e, nil
}

// Latest implements Catalog.
func (s *SQLiteCatalog) Latest(collection string) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return Entry{}, ErrClosed
	}

	e, err := scanEntry(s.db.QueryRow(selectEntry+`
		WHERE collection = ?
		ORDER BY cycle DESC
		LIMIT 1
	`, collection))
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, ErrNotFound
	}
	if err != nil {
		return Entry{}, fmt.Errorf("latest cycle: %w", err)
	}
	return e, nil
}

// List implements Catalog.
func (s *SQLiteCatalog) List(collection string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}

	rows, err := s.db.Query(selectEntry+`
		WHERE collection = ?
		ORDER BY cycle
	`, collection)
	if err != nil {
		return nil, fmt.Errorf("list cycles: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cycle: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cycles: %w", err)
	}
	return entries, nil
}

// Delete implements Catalog.
func (s *SQLiteCatalog) Delete(collection string, cycle int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	if _, err := s.db.Exec(`
		DELETE FROM cycles WHERE collection = ? AND cycle = ?
	`, collection, cycle); err != nil {
		return fmt.Errorf("delete cycle: %w", err)
	}
	return nil
}

// Close implements Catalog.
func (s *SQLiteCatalog) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
