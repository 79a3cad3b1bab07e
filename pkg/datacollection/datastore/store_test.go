package datastore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndLookup(t *testing.T) {
	s := New()
	g := s.Root().CreateGroup("run/topology/coords")

	assert.Equal(t, "coords", g.Name())
	assert.Equal(t, "run/topology/coords", g.Path())

	again := s.Root().CreateGroup("run/topology")
	got, ok := s.Group("run/topology")
	require.True(t, ok)
	assert.Same(t, again, got)
	assert.Equal(t, []string{"coords"}, got.GroupNames())

	_, ok = s.Group("run/missing")
	assert.False(t, ok)
}

func TestStore_ExternalViewsShareMemory(t *testing.T) {
	s := New()
	xyz := []float64{0, 0, 1, 0, 1, 1}
	conn := []int32{0, 1, 2}

	g := s.Root().CreateGroup("mesh")
	g.SetFloats("xyz", xyz)
	g.SetInts("conn", conn)

	v, ok := s.View("mesh/xyz")
	require.True(t, ok)
	assert.True(t, v.External())
	assert.Equal(t, KindFloats, v.Kind())
	assert.Equal(t, 6, v.Len())
	assert.Same(t, &xyz[0], &v.Floats()[0])

	xyz[3] = 42
	assert.Equal(t, 42.0, v.Floats()[3])

	c, ok := s.View("mesh/conn")
	require.True(t, ok)
	assert.Same(t, &conn[0], &c.Ints()[0])
}

func TestStore_OwnedViews(t *testing.T) {
	g := New().Root().CreateGroup("g")

	assert.Equal(t, int64(3), g.SetInt("number", 3).Int())
	assert.Equal(t, 0.5, g.SetFloat("time", 0.5).Float())
	s := g.SetString("shape", "tris")
	assert.Equal(t, "tris", s.Text())
	assert.False(t, s.External())
	assert.Equal(t, 1, s.Len())

	assert.Equal(t, []string{"number", "shape", "time"}, g.ViewNames())

	g.SetString("shape", "quads")
	v, ok := g.View("shape")
	require.True(t, ok)
	assert.Equal(t, "quads", v.Text())
}

func TestStore_DestroyGroup(t *testing.T) {
	s := New()
	s.Root().CreateGroup("run/topology").SetInt("dimension", 2)

	assert.True(t, s.Root().DestroyGroup("run"))
	assert.False(t, s.Root().DestroyGroup("run"))

	_, ok := s.View("run/topology/dimension")
	assert.False(t, ok)
	assert.Empty(t, s.Root().GroupNames())
}

func TestStore_ViewPaths(t *testing.T) {
	s := New()
	s.Root().CreateGroup("a").SetInt("n", 1)

	tests := []struct {
		path string
		ok   bool
	}{
		{"a/n", true},
		{"/a/n", true},
		{"a//n", true},
		{"a", false},
		{"", false},
		{"b/n", false},
		{"a/m", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, ok := s.View(tt.path)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "float64[]", KindFloats.String())
	assert.Equal(t, "int32[]", KindInts.String())
	assert.Equal(t, "int64", KindInt.String())
	assert.Equal(t, "float64", KindFloat.String())
	assert.Equal(t, "string", KindString.String())
	assert.Equal(t, "unknown", Kind(99).String())
}
