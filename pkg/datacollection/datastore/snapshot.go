package datastore

import (
	"fmt"
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

// SnapshotGroup is a detached copy of a group, as written by Snapshot.
type SnapshotGroup struct {
	Name   string          `msgpack:"name" json:"name"`
	Views  []SnapshotView  `msgpack:"views,omitempty" json:"views,omitempty"`
	Groups []SnapshotGroup `msgpack:"groups,omitempty" json:"groups,omitempty"`
}

// SnapshotView is a detached copy of a view. Exactly one data field is set,
// according to Kind.
type SnapshotView struct {
	Name   string    `msgpack:"name" json:"name"`
	Kind   string    `msgpack:"kind" json:"kind"`
	Floats []float64 `msgpack:"floats,omitempty" json:"floats,omitempty"`
	Ints   []int32   `msgpack:"ints,omitempty" json:"ints,omitempty"`
	Int    int64     `msgpack:"int,omitempty" json:"int,omitempty"`
	Float  float64   `msgpack:"float,omitempty" json:"float,omitempty"`
	Text   string    `msgpack:"text,omitempty" json:"text,omitempty"`
}

// Copy returns a detached copy of the tree below g. Array data is copied
// when withData is set and left out otherwise.
func (g *Group) Copy(withData bool) SnapshotGroup {
	g.store.mu.RLock()
	defer g.store.mu.RUnlock()
	return g.copy(withData)
}

func (g *Group) copy(withData bool) SnapshotGroup {
	sg := SnapshotGroup{Name: g.name}
	for _, name := range sortedKeys(g.views) {
		sg.Views = append(sg.Views, g.views[name].snapshot(withData))
	}
	for _, name := range sortedKeys(g.groups) {
		sg.Groups = append(sg.Groups, g.groups[name].copy(withData))
	}
	return sg
}

func (v *View) snapshot(withData bool) SnapshotView {
	sv := SnapshotView{Name: v.name, Kind: v.kind.String()}
	switch v.kind {
	case KindFloats:
		if withData {
			sv.Floats = append([]float64(nil), v.floats...)
		}
	case KindInts:
		if withData {
			sv.Ints = append([]int32(nil), v.ints...)
		}
	case KindInt:
		sv.Int = v.i
	case KindFloat:
		sv.Float = v.f
	case KindString:
		sv.Text = v.s
	}
	return sv
}

// Snapshot writes a msgpack copy of the whole tree, array data included.
func (s *Store) Snapshot(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(s.root.Copy(true)); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// ReadSnapshot decodes a tree written by Snapshot.
func ReadSnapshot(r io.Reader) (SnapshotGroup, error) {
	var sg SnapshotGroup
	if err := msgpack.NewDecoder(r).Decode(&sg); err != nil {
		return SnapshotGroup{}, fmt.Errorf("decode snapshot: %w", err)
	}
	return sg, nil
}

// Find returns the descendant at path within a snapshot.
func (sg SnapshotGroup) Find(path string) (SnapshotGroup, bool) {
	cur := sg
	for _, name := range split(path) {
		found := false
		for _, child := range cur.Groups {
			if child.Name == name {
				cur, found = child, true
				break
			}
		}
		if !found {
			return SnapshotGroup{}, false
		}
	}
	return cur, true
}

// View returns the named view of sg.
func (sg SnapshotGroup) View(name string) (SnapshotView, bool) {
	for _, v := range sg.Views {
		if v.Name == name {
			return v, true
		}
	}
	return SnapshotView{}, false
}
