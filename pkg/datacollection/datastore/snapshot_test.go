package datastore

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RoundTrip(t *testing.T) {
	s := New()
	topo := s.Root().CreateGroup("run/topology")
	topo.SetString("type", "unstructured")
	topo.SetInt("dimension", 2)
	topo.CreateGroup("coords").SetFloats("xyz", []float64{0, 0, 1, 0})
	s.Root().CreateGroup("run/pressure").SetFloat("scale", 1.5)

	var buf bytes.Buffer
	require.NoError(t, s.Snapshot(&buf))

	snap, err := ReadSnapshot(&buf)
	require.NoError(t, err)

	g, ok := snap.Find("run/topology")
	require.True(t, ok)
	typ, ok := g.View("type")
	require.True(t, ok)
	assert.Equal(t, "string", typ.Kind)
	assert.Equal(t, "unstructured", typ.Text)

	dim, ok := g.View("dimension")
	require.True(t, ok)
	assert.Equal(t, int64(2), dim.Int)

	coords, ok := snap.Find("run/topology/coords")
	require.True(t, ok)
	xyz, ok := coords.View("xyz")
	require.True(t, ok)
	assert.Equal(t, []float64{0, 0, 1, 0}, xyz.Floats)

	p, ok := snap.Find("run/pressure")
	require.True(t, ok)
	scale, _ := p.View("scale")
	assert.Equal(t, 1.5, scale.Float)

	_, ok = snap.Find("run/missing")
	assert.False(t, ok)
}

func TestSnapshot_IsDetached(t *testing.T) {
	data := []float64{1, 2, 3}
	s := New()
	s.Root().CreateGroup("f").SetFloats("data", data)

	snap := s.Root().Copy(true)
	data[0] = 99

	f, ok := snap.Find("f")
	require.True(t, ok)
	v, _ := f.View("data")
	assert.Equal(t, []float64{1, 2, 3}, v.Floats)
}

func TestCopy_WithoutData(t *testing.T) {
	s := New()
	s.Root().CreateGroup("f").SetFloats("data", []float64{1, 2, 3})

	f, ok := s.Root().Copy(false).Find("f")
	require.True(t, ok)
	v, ok := f.View("data")
	require.True(t, ok)
	assert.Equal(t, "float64[]", v.Kind)
	assert.Nil(t, v.Floats)
}

func TestReadSnapshot_Invalid(t *testing.T) {
	_, err := ReadSnapshot(bytes.NewReader([]byte{0xc1}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode snapshot")
}
