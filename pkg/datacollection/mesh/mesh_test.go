package mesh_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/randalmurphal/datacollection/pkg/datacollection/mesh"
	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unitSquare builds a single quad with four boundary segments.
func unitSquare(t *testing.T) *mesh.Mesh {
	t.Helper()
	m := mesh.New(2, 2)
	m.AddVertex(0, 0)
	m.AddVertex(1, 0)
	m.AddVertex(1, 1)
	m.AddVertex(0, 1)
	require.NoError(t, m.AddElement(1, mesh.Square, 0, 1, 2, 3))
	for i := int32(0); i < 4; i++ {
		require.NoError(t, m.AddBoundary(i+1, mesh.Segment, i, (i+1)%4))
	}
	return m
}

func TestMesh_PrintReadRoundTrip(t *testing.T) {
	m := unitSquare(t)

	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf, 8))
	assert.True(t, strings.HasPrefix(buf.String(), mesh.Header+"\n"))

	got, err := mesh.Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Dimension())
	assert.Equal(t, 2, got.SpaceDimension())
	assert.Equal(t, 4, got.NumVertices())
	assert.Equal(t, m.Vertices, got.Vertices)
	assert.Equal(t, m.Elements, got.Elements)
	assert.Equal(t, m.Boundary, got.Boundary)
	assert.Nil(t, got.Nodes)
}

func TestMesh_PrintPrecision(t *testing.T) {
	m := mesh.New(1, 1)
	m.AddVertex(1.0 / 3.0)

	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf, 3))
	assert.Contains(t, buf.String(), "\n0.333\n")
}

func TestMesh_WithNodes(t *testing.T) {
	m := unitSquare(t)
	m.Nodes = mesh.NewGridFunction(m, "H1_2D_P2", 2, []float64{0, 0, 1, 0, 1, 1, 0, 1})

	var buf bytes.Buffer
	require.NoError(t, m.Print(&buf, 0))

	got, err := mesh.Read(&buf)
	require.NoError(t, err)
	require.NotNil(t, got.Nodes)
	assert.Equal(t, "H1_2D_P2", got.Nodes.Collection)
	assert.Equal(t, 2, got.Nodes.VectorDimension())
	assert.Equal(t, m.Nodes.Data, got.Nodes.Data)
	assert.Same(t, got, got.Nodes.Mesh())
}

func TestMesh_AddElementErrors(t *testing.T) {
	m := mesh.New(2, 2)
	assert.ErrorIs(t, m.AddElement(1, mesh.Triangle, 0, 1), mesh.ErrFormat)
	assert.ErrorIs(t, m.AddElement(1, mesh.Geometry(42), 0), mesh.ErrFormat)

	require.NoError(t, m.AddElement(1, mesh.Triangle, 0, 1, 2))
	assert.ErrorIs(t, m.AddElement(1, mesh.Square, 0, 1, 2, 3), mesh.ErrMixedGeometry)
}

func TestRead_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"wrong header", "VTK mesh v1.0"},
		{"truncated", "MFEM mesh v1.0\ndimension\n2\nelements\n1\n1 3 0 1"},
		{"bad geometry", "MFEM mesh v1.0\ndimension\n2\nelements\n1\n1 9 0\n"},
		{"bad number", "MFEM mesh v1.0\ndimension\ntwo\n"},
		{"trailing section", "MFEM mesh v1.0\ndimension\n1\nelements\n0\nboundary\n0\nvertices\n0\n1\nextra\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mesh.Read(strings.NewReader(tt.input))
			assert.ErrorIs(t, err, mesh.ErrFormat)
		})
	}
}

func TestGridFunction_SaveReadRoundTrip(t *testing.T) {
	m := unitSquare(t)
	gf := mesh.NewGridFunction(m, "H1_2D_P1", 1, []float64{0.5, 1.5, 2.5, 3.5})
	gf.Ordering = mesh.ByVDim

	var buf bytes.Buffer
	require.NoError(t, gf.Save(&buf, 6))

	got, err := mesh.ReadGridFunction(m, &buf)
	require.NoError(t, err)
	assert.Equal(t, gf.Collection, got.Collection)
	assert.Equal(t, gf.Data, got.Data)
	assert.Equal(t, mesh.ByVDim, got.Ordering)
	assert.Same(t, m, got.Mesh())
}

func TestReadGridFunction_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no header", "1 2 3"},
		{"bad vdim", "FiniteElementSpace\nFiniteElementCollection: L2\nVDim: 0\nOrdering: 0\n"},
		{"bad ordering", "FiniteElementSpace\nFiniteElementCollection: L2\nVDim: 1\nOrdering: 7\n"},
		{"indivisible", "FiniteElementSpace\nFiniteElementCollection: L2\nVDim: 2\nOrdering: 0\n1\n2\n3\n"},
		{"bad value", "FiniteElementSpace\nFiniteElementCollection: L2\nVDim: 1\nOrdering: 0\nx\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := mesh.ReadGridFunction(nil, strings.NewReader(tt.input))
			assert.ErrorIs(t, err, mesh.ErrFormat)
		})
	}
}

func TestClose(t *testing.T) {
	m := unitSquare(t)
	m.Nodes = mesh.NewGridFunction(m, "H1_2D_P1", 2, make([]float64, 8))

	require.NoError(t, m.Close())
	assert.True(t, m.Closed())
	assert.True(t, m.Nodes.Closed())
	require.NoError(t, m.Close())
}

func TestPartitioned(t *testing.T) {
	g := topology.NewGroup(3)
	p := mesh.NewPartitioned(unitSquare(t), g.Member(2))

	assert.Equal(t, 2, p.Topology().Rank())
	assert.Equal(t, 3, p.Topology().Size())
	assert.Equal(t, 2, p.Dimension())
	assert.Same(t, p.Mesh, p.Base())
}

func TestGeometry(t *testing.T) {
	assert.Equal(t, 8, mesh.Cube.NumVertices())
	assert.Equal(t, 3, mesh.Tetrahedron.Dimension())
	assert.Equal(t, "quads", mesh.Square.Shape())
	assert.Equal(t, "unknown", mesh.Geometry(-1).Shape())
	assert.Equal(t, 0, mesh.Geometry(99).NumVertices())
}
