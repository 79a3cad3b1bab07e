package registry

import (
	"cmp"
	"slices"
	"sync"
)

// Registry maps keys to values and iterates in ascending key order.
type Registry[K cmp.Ordered, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// New creates a new empty registry.
func New[K cmp.Ordered, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		entries: make(map[K]V),
	}
}

// Register inserts or replaces the value for key. It returns the previous
// value and true when an existing entry was replaced.
func (r *Registry[K, V]) Register(key K, value V) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	old, ok := r.entries[key]
	r.entries[key] = value
	return old, ok
}

// Get returns the value for a key and whether it exists.
func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.entries[key]
	return v, ok
}

// Has returns true if the key exists in the registry.
func (r *Registry[K, V]) Has(key K) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Delete removes a key and returns the removed value, if any.
func (r *Registry[K, V]) Delete(key K) (V, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.entries[key]
	delete(r.entries, key)
	return v, ok
}

// Clear removes every entry.
func (r *Registry[K, V]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	clear(r.entries)
}

// Keys returns all keys in ascending order.
func (r *Registry[K, V]) Keys() []K {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.sortedKeys()
}

// Len returns the number of entries in the registry.
func (r *Registry[K, V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Range calls fn for each entry in ascending key order until fn returns
// false. It iterates over a snapshot taken under the read lock.
func (r *Registry[K, V]) Range(fn func(K, V) bool) {
	r.mu.RLock()
	keys := r.sortedKeys()
	values := make([]V, len(keys))
	for i, k := range keys {
		values[i] = r.entries[k]
	}
	r.mu.RUnlock()

	for i, k := range keys {
		if !fn(k, values[i]) {
			return
		}
	}
}

// Update replaces every value with fn(key, value), in key order.
func (r *Registry[K, V]) Update(fn func(K, V) V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, k := range r.sortedKeys() {
		r.entries[k] = fn(k, r.entries[k])
	}
}

// sortedKeys must be called with r.mu held.
func (r *Registry[K, V]) sortedKeys() []K {
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
