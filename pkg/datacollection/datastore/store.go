package datastore

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// PathSeparator separates group and view names in a path.
const PathSeparator = "/"

// ErrNotFound indicates a path that names no group or view.
var ErrNotFound = errors.New("not found")

// Store is a tree of groups rooted at an unnamed group. It is safe for
// concurrent use.
type Store struct {
	mu   sync.RWMutex
	root *Group
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.root = newGroup(s, nil, "")
	return s
}

// Root returns the root group.
func (s *Store) Root() *Group { return s.root }

// Group returns the group at path relative to the root.
func (s *Store) Group(path string) (*Group, bool) {
	return s.root.Group(path)
}

// View returns the view at path relative to the root.
func (s *Store) View(path string) (*View, bool) {
	return s.root.View(path)
}

// Group is a named node holding child groups and views.
type Group struct {
	store  *Store
	parent *Group
	name   string
	groups map[string]*Group
	views  map[string]*View
}

func newGroup(s *Store, parent *Group, name string) *Group {
	return &Group{
		store:  s,
		parent: parent,
		name:   name,
		groups: make(map[string]*Group),
		views:  make(map[string]*View),
	}
}

// Name returns the group name; the root's name is empty.
func (g *Group) Name() string { return g.name }

// Path returns the slash-separated path from the root.
func (g *Group) Path() string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.path()
}

func (g *Group) path() string {
	if g.parent == nil {
		return ""
	}
	if p := g.parent.path(); p != "" {
		return p + PathSeparator + g.name
	}
	return g.name
}

// CreateGroup returns the group at path, creating missing groups on the way.
func (g *Group) CreateGroup(path string) *Group {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	cur := g
	for _, name := range split(path) {
		child, ok := cur.groups[name]
		if !ok {
			child = newGroup(g.store, cur, name)
			cur.groups[name] = child
		}
		cur = child
	}
	return cur
}

// Group returns the descendant group at path.
func (g *Group) Group(path string) (*Group, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.walk(split(path))
}

func (g *Group) walk(names []string) (*Group, bool) {
	cur := g
	for _, name := range names {
		child, ok := cur.groups[name]
		if !ok {
			return nil, false
		}
		cur = child
	}
	return cur, true
}

// DestroyGroup removes the child group name and everything below it.
func (g *Group) DestroyGroup(name string) bool {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()

	child, ok := g.groups[name]
	if ok {
		child.parent = nil
		delete(g.groups, name)
	}
	return ok
}

// View returns the view at path below g; the last segment names the view.
func (g *Group) View(path string) (*View, bool) {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()

	names := split(path)
	if len(names) == 0 {
		return nil, false
	}
	owner, ok := g.walk(names[:len(names)-1])
	if !ok {
		return nil, false
	}
	v, ok := owner.views[names[len(names)-1]]
	return v, ok
}

// GroupNames returns child group names in ascending order.
func (g *Group) GroupNames() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return sortedKeys(g.groups)
}

// ViewNames returns view names in ascending order.
func (g *Group) ViewNames() []string {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return sortedKeys(g.views)
}

// SetFloats publishes data as an external view. The slice is referenced,
// not copied.
func (g *Group) SetFloats(name string, data []float64) *View {
	return g.put(&View{name: name, kind: KindFloats, floats: data})
}

// SetInts publishes data as an external view. The slice is referenced,
// not copied.
func (g *Group) SetInts(name string, data []int32) *View {
	return g.put(&View{name: name, kind: KindInts, ints: data})
}

// SetInt stores an owned integer scalar.
func (g *Group) SetInt(name string, v int64) *View {
	return g.put(&View{name: name, kind: KindInt, i: v})
}

// SetFloat stores an owned float scalar.
func (g *Group) SetFloat(name string, v float64) *View {
	return g.put(&View{name: name, kind: KindFloat, f: v})
}

// SetString stores an owned string.
func (g *Group) SetString(name, s string) *View {
	return g.put(&View{name: name, kind: KindString, s: s})
}

func (g *Group) put(v *View) *View {
	g.store.mu.Lock()
	defer g.store.mu.Unlock()
	g.views[v.name] = v
	return v
}

func split(path string) []string {
	var names []string
	for _, s := range strings.Split(path, PathSeparator) {
		if s != "" {
			names = append(names, s)
		}
	}
	return names
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
