// Package catalog indexes saved cycles so a restart can find them without
// scanning the output directory.
//
// Each entry points at the root document of one saved cycle. The root files
// remain the source of truth; a catalog only makes them easy to locate.
package catalog

import (
	"errors"
	"time"
)

// Catalog records saved cycles.
// Implementations must be safe for concurrent use.
type Catalog interface {
	// Record stores an entry. An entry for the same (collection, cycle)
	// is overwritten.
	Record(e Entry) error

	// Get returns the entry for one cycle.
	// Returns ErrNotFound if the cycle was never recorded.
	Get(collection string, cycle int) (Entry, error)

	// Latest returns the entry with the highest cycle for a collection.
	// Returns ErrNotFound if the collection has no entries.
	Latest(collection string) (Entry, error)

	// List returns all entries for a collection, ordered by cycle.
	// Returns an empty slice (not error) if there are none.
	List(collection string) ([]Entry, error)

	// Delete removes one entry.
	// Returns nil if the entry doesn't exist.
	Delete(collection string, cycle int) error

	// Close releases any resources (connections, files).
	Close() error
}

// Entry describes one saved cycle.
type Entry struct {
	Collection string
	Cycle      int
	Time       float64
	Domains    int
	RootPath   string
	SaveID     string
	SavedAt    time.Time
}

// Sentinel errors for catalog operations.
var (
	// ErrNotFound indicates no matching entry exists.
	ErrNotFound = errors.New("catalog entry not found")

	// ErrClosed indicates the catalog has been closed.
	ErrClosed = errors.New("catalog closed")
)
