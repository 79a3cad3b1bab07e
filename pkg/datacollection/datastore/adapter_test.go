package datastore_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/datacollection/pkg/datacollection"
	"github.com/randalmurphal/datacollection/pkg/datacollection/datastore"
	"github.com/randalmurphal/datacollection/pkg/datacollection/mesh"
)

func unitSquare(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New(2, 2)
	m.AddVertex(0, 0)
	m.AddVertex(1, 0)
	m.AddVertex(1, 1)
	m.AddVertex(0, 1)
	require.NoError(t, m.AddElement(1, mesh.Triangle, 0, 1, 2))
	require.NoError(t, m.AddElement(2, mesh.Triangle, 0, 2, 3))
	require.NoError(t, m.AddBoundary(1, mesh.Segment, 0, 1))
	return m
}

func TestAdapter_MeshProjection(t *testing.T) {
	store := datastore.New()
	m := unitSquare(t)
	dc := datacollection.New("run", datacollection.WithSink(datastore.NewAdapter(store, nil)))
	dc.SetMesh(m)

	typ, ok := store.View("run/topology/type")
	require.True(t, ok)
	assert.Equal(t, "unstructured", typ.Text())

	dim, ok := store.View("run/topology/dimension")
	require.True(t, ok)
	assert.Equal(t, int64(2), dim.Int())

	number, ok := store.View("run/topology/mesh_elements/number")
	require.True(t, ok)
	assert.Equal(t, int64(2), number.Int())

	shape, ok := store.View("run/topology/mesh_elements/shape")
	require.True(t, ok)
	assert.Equal(t, "tris", shape.Text())

	conn, ok := store.View("run/topology/mesh_elements/connectivity")
	require.True(t, ok)
	assert.Same(t, &m.Elements.Connectivity[0], &conn.Ints()[0])

	attrs, ok := store.View("run/topology/mesh_elements/material_attributes")
	require.True(t, ok)
	assert.Equal(t, []int32{1, 2}, attrs.Ints())

	bshape, ok := store.View("run/topology/boundary_elements/shape")
	require.True(t, ok)
	assert.Equal(t, "lines", bshape.Text())

	ctype, ok := store.View("run/topology/coords/type")
	require.True(t, ok)
	assert.Equal(t, "explicit", ctype.Text())

	xyz, ok := store.View("run/topology/coords/xyz")
	require.True(t, ok)
	assert.True(t, xyz.External())
	assert.Same(t, &m.Vertices[0], &xyz.Floats()[0])

	_, ok = store.Group("run/topology/nodes")
	assert.False(t, ok)
}

func TestAdapter_NodesAndFields(t *testing.T) {
	store := datastore.New()
	m := unitSquare(t)
	m.Nodes = mesh.NewGridFunction(m, "H1_2D_P1", 2, make([]float64, 8))
	m.Nodes.Ordering = mesh.ByVDim

	dc := datacollection.New("run",
		datacollection.WithMesh(m),
		datacollection.WithSink(datastore.NewAdapter(store, nil)))

	ordering, ok := store.View("run/topology/nodes/ordering")
	require.True(t, ok)
	assert.Equal(t, "byVDim", ordering.Text())

	p := mesh.NewGridFunction(m, "H1_2D_P1", 1, []float64{1, 2, 3, 4})
	dc.RegisterField("pressure", p)

	tests := []struct {
		path string
		want any
	}{
		{"run/pressure/type", "FiniteElementSpace"},
		{"run/pressure/name", "H1_2D_P1"},
		{"run/pressure/dimension", int64(1)},
		{"run/pressure/ordering", "byNode"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			v, ok := store.View(tt.path)
			require.True(t, ok)
			assert.Equal(t, tt.want, v.Value())
		})
	}

	data, ok := store.View("run/pressure/data")
	require.True(t, ok)
	assert.Same(t, &p.Data[0], &data.Floats()[0])
}

func TestAdapter_FieldReplaced(t *testing.T) {
	store := datastore.New()
	m := unitSquare(t)
	dc := datacollection.New("run", datacollection.WithMesh(m),
		datacollection.WithSink(datastore.NewAdapter(store, nil)))

	dc.RegisterField("u", mesh.NewGridFunction(m, "H1_2D_P1", 1, []float64{1, 1, 1, 1}))
	dc.RegisterField("u", mesh.NewGridFunction(m, "L2_2D_P0", 2, []float64{2, 2}))

	name, ok := store.View("run/u/name")
	require.True(t, ok)
	assert.Equal(t, "L2_2D_P0", name.Text())
	data, _ := store.View("run/u/data")
	assert.Equal(t, []float64{2, 2}, data.Floats())
}

func TestAdapter_DataReleased(t *testing.T) {
	store := datastore.New()
	m := unitSquare(t)
	dc := datacollection.New("run", datacollection.WithMesh(m),
		datacollection.WithSink(datastore.NewAdapter(store, nil)))
	dc.RegisterField("u", mesh.NewGridFunction(m, "H1_2D_P1", 1, []float64{1, 1, 1, 1}))

	dc.DeleteAll()

	_, ok := store.Group("run")
	assert.False(t, ok)
}

type foreignMesh struct{ datacollection.Mesh }

type unsupportedField struct{}

func (unsupportedField) Save(io.Writer, int) error { return nil }
func (unsupportedField) VectorDimension() int { return 1 }

func TestAdapter_UnsupportedObjectsAreSkipped(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	store := datastore.New()
	a := datastore.NewAdapter(store, logger)

	a.MeshAttached("run", foreignMesh{})
	a.FieldRegistered("run", "u", unsupportedField{})

	_, ok := store.Group("run/topology")
	assert.False(t, ok)
	_, ok = store.Group("run/u")
	assert.False(t, ok)
	assert.Contains(t, logs.String(), "datastore projection skipped")
}
