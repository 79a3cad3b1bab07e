package catalog

import (
	"sort"
	"sync"
)

// MemoryCatalog is an in-memory catalog for testing.
// Data is lost when the process exits.
type MemoryCatalog struct {
	mu      sync.RWMutex
	entries map[string]map[int]Entry // collection -> cycle -> entry
	closed  bool
}

// Compile-time interface check.
var _ Catalog = (*MemoryCatalog)(nil)

// NewMemoryCatalog creates a new in-memory catalog.
func NewMemoryCatalog() *MemoryCatalog {
	return &MemoryCatalog{
		entries: make(map[string]map[int]Entry),
	}
}

// Record implements Catalog.
func (m *MemoryCatalog) Record(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	if m.entries[e.Collection] == nil {
		m.entries[e.Collection] = make(map[int]Entry)
	}
	m.entries[e.Collection][e.Cycle] = e
	return nil
}

// Get implements Catalog.
func (m *MemoryCatalog) Get(collection string, cycle int) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrClosed
	}
	e, ok := m.entries[collection][cycle]
	if !ok {
		return Entry{}, ErrNotFound
	}
	return e, nil
}

// Latest implements Catalog.
func (m *MemoryCatalog) Latest(collection string) (Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return Entry{}, ErrClosed
	}
	var latest Entry
	found := false
	for cycle, e := range m.entries[collection] {
		if !found || cycle > latest.Cycle {
			latest, found = e, true
		}
	}
	if !found {
		return Entry{}, ErrNotFound
	}
	return latest, nil
}

// List implements Catalog.
func (m *MemoryCatalog) List(collection string) ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return nil, ErrClosed
	}
	entries := make([]Entry, 0, len(m.entries[collection]))
	for _, e := range m.entries[collection] {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Cycle < entries[j].Cycle
	})
	return entries, nil
}

// Delete implements Catalog.
func (m *MemoryCatalog) Delete(collection string, cycle int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	delete(m.entries[collection], cycle)
	return nil
}

// Close implements Catalog.
func (m *MemoryCatalog) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	m.entries = nil
	return nil
}

// Len returns the total number of entries across all collections.
func (m *MemoryCatalog) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, c := range m.entries {
		count += len(c)
	}
	return count
}
