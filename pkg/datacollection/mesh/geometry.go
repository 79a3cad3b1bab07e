package mesh

import "fmt"

// Geometry identifies an element shape. Values match the wire format ids.
type Geometry int

// Supported geometries.
const (
	Point Geometry = iota
	Segment
	Triangle
	Square
	Tetrahedron
	Cube
)

var geometries = [...]struct {
	vertices int
	dim      int
	shape    string
}{
	Point:       {1, 0, "points"},
	Segment:     {2, 1, "lines"},
	Triangle:    {3, 2, "tris"},
	Square:      {4, 2, "quads"},
	Tetrahedron: {4, 3, "tets"},
	Cube:        {8, 3, "hexs"},
}

// Valid reports whether g is a known geometry.
func (g Geometry) Valid() bool {
	return g >= Point && int(g) < len(geometries)
}

// NumVertices returns the vertex count of one element of this geometry.
func (g Geometry) NumVertices() int {
	if !g.Valid() {
		return 0
	}
	return geometries[g].vertices
}

// Dimension returns the reference dimension of the geometry.
func (g Geometry) Dimension() int {
	if !g.Valid() {
		return -1
	}
	return geometries[g].dim
}

// Shape returns the plural shape name used by visualization tools.
func (g Geometry) Shape() string {
	if !g.Valid() {
		return "unknown"
	}
	return geometries[g].shape
}

func (g Geometry) String() string {
	if !g.Valid() {
		return fmt.Sprintf("Geometry(%d)", int(g))
	}
	return geometries[g].shape
}
