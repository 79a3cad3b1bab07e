package mesh

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Header is the first line of every mesh file.
const Header = "MFEM mesh v1.0"

// Sentinel errors for mesh construction.
var (
	// ErrFormat indicates a stream that is not a mesh or grid function.
	ErrFormat = errors.New("malformed mesh data")

	// ErrMixedGeometry indicates an element block with more than one shape.
	ErrMixedGeometry = errors.New("element block mixes geometries")
)

// ElementBlock stores elements of a single geometry contiguously. Element i
// uses Connectivity[i*n:(i+1)*n] with n = Geometry.NumVertices().
type ElementBlock struct {
	Geometry     Geometry
	Attributes   []int32
	Connectivity []int32
}

// Len returns the number of elements in the block.
func (b ElementBlock) Len() int {
	return len(b.Attributes)
}

// Mesh is an unstructured mesh with vertex coordinates stored contiguously,
// SpaceDim values per vertex.
type Mesh struct {
	Dim      int
	SpaceDim int
	Elements ElementBlock
	Boundary ElementBlock
	Vertices []float64

	// Nodes optionally defines a high-order geometry. It is owned by the mesh.
	Nodes *GridFunction

	closed bool
}

// New creates a mesh of dimension dim embedded in spaceDim with no elements.
func New(dim, spaceDim int) *Mesh {
	return &Mesh{Dim: dim, SpaceDim: spaceDim}
}

// Dimension returns the topological dimension.
func (m *Mesh) Dimension() int { return m.Dim }

// SpaceDimension returns the dimension of the embedding space.
func (m *Mesh) SpaceDimension() int { return m.SpaceDim }

// NumVertices returns the vertex count.
func (m *Mesh) NumVertices() int {
	if m.SpaceDim == 0 {
		return 0
	}
	return len(m.Vertices) / m.SpaceDim
}

// Base returns the mesh itself. Wrappers that embed *Mesh inherit it, which
// lets consumers reach the underlying arrays without knowing the wrapper.
func (m *Mesh) Base() *Mesh { return m }

// AddVertex appends one vertex; len(coords) must equal SpaceDim.
func (m *Mesh) AddVertex(coords ...float64) int {
	m.Vertices = append(m.Vertices, coords...)
	return m.NumVertices() - 1
}

// AddElement appends an element. The first element fixes the block geometry.
func (m *Mesh) AddElement(attr int32, g Geometry, vertices ...int32) error {
	return addTo(&m.Elements, attr, g, vertices)
}

// AddBoundary appends a boundary element.
func (m *Mesh) AddBoundary(attr int32, g Geometry, vertices ...int32) error {
	return addTo(&m.Boundary, attr, g, vertices)
}

func addTo(b *ElementBlock, attr int32, g Geometry, vertices []int32) error {
	if !g.Valid() || len(vertices) != g.NumVertices() {
		return fmt.Errorf("%w: geometry %v with %d vertices", ErrFormat, g, len(vertices))
	}
	if b.Len() > 0 && b.Geometry != g {
		return fmt.Errorf("%w: %v and %v", ErrMixedGeometry, b.Geometry, g)
	}
	b.Geometry = g
	b.Attributes = append(b.Attributes, attr)
	b.Connectivity = append(b.Connectivity, vertices...)
	return nil
}

// Print writes the mesh in the text wire format. Coordinates use precision
// significant digits.
func (m *Mesh) Print(w io.Writer, precision int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\ndimension\n%d\n\n", Header, m.Dim)

	fmt.Fprint(bw, "elements\n")
	printBlock(bw, m.Elements)
	fmt.Fprint(bw, "\nboundary\n")
	printBlock(bw, m.Boundary)

	fmt.Fprintf(bw, "\nvertices\n%d\n%d\n", m.NumVertices(), m.SpaceDim)
	for i := 0; i < m.NumVertices(); i++ {
		for d := 0; d < m.SpaceDim; d++ {
			if d > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(m.Vertices[i*m.SpaceDim+d], precision))
		}
		bw.WriteByte('\n')
	}

	if m.Nodes != nil {
		fmt.Fprint(bw, "\nnodes\n")
		if err := m.Nodes.Save(bw, precision); err != nil {
			return err
		}
	}
	return bw.Flush()
}

func printBlock(bw *bufio.Writer, b ElementBlock) {
	fmt.Fprintf(bw, "%d\n", b.Len())
	n := b.Geometry.NumVertices()
	for i := 0; i < b.Len(); i++ {
		fmt.Fprintf(bw, "%d %d", b.Attributes[i], int(b.Geometry))
		for _, v := range b.Connectivity[i*n : (i+1)*n] {
			fmt.Fprintf(bw, " %d", v)
		}
		bw.WriteByte('\n')
	}
}

// Read constructs a mesh from its text wire format.
func Read(r io.Reader) (*Mesh, error) {
	tk := newTokens(r)
	if err := tk.expect("MFEM", "mesh", "v1.0"); err != nil {
		return nil, err
	}

	m := &Mesh{}
	var err error
	if err = tk.expect("dimension"); err != nil {
		return nil, err
	}
	if m.Dim, err = tk.int(); err != nil {
		return nil, err
	}

	if err = tk.expect("elements"); err != nil {
		return nil, err
	}
	if err = readBlock(tk, m, m.AddElement); err != nil {
		return nil, err
	}
	if err = tk.expect("boundary"); err != nil {
		return nil, err
	}
	if err = readBlock(tk, m, m.AddBoundary); err != nil {
		return nil, err
	}

	if err = tk.expect("vertices"); err != nil {
		return nil, err
	}
	nv, err := tk.int()
	if err != nil {
		return nil, err
	}
	if m.SpaceDim, err = tk.int(); err != nil {
		return nil, err
	}
	m.Vertices = make([]float64, nv*m.SpaceDim)
	for i := range m.Vertices {
		if m.Vertices[i], err = tk.float(); err != nil {
			return nil, err
		}
	}

	word, ok := tk.next()
	if ok && word == "nodes" {
		if m.Nodes, err = readGridFunction(tk, m); err != nil {
			return nil, err
		}
	} else if ok {
		return nil, fmt.Errorf("%w: unexpected section %q", ErrFormat, word)
	}
	if err := tk.err(); err != nil {
		return nil, err
	}
	return m, nil
}

func readBlock(tk *tokens, m *Mesh, add func(int32, Geometry, ...int32) error) error {
	n, err := tk.int()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		attr, err := tk.int()
		if err != nil {
			return err
		}
		geom, err := tk.int()
		if err != nil {
			return err
		}
		g := Geometry(geom)
		if !g.Valid() {
			return fmt.Errorf("%w: unknown geometry %d", ErrFormat, geom)
		}
		verts := make([]int32, g.NumVertices())
		for j := range verts {
			v, err := tk.int()
			if err != nil {
				return err
			}
			verts[j] = int32(v)
		}
		if err := add(int32(attr), g, verts...); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the mesh and its nodal grid function. It is safe to call
// more than once.
func (m *Mesh) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.Nodes != nil {
		m.Nodes.Close()
	}
	m.Vertices = nil
	m.Elements = ElementBlock{}
	m.Boundary = ElementBlock{}
	return nil
}

// Closed reports whether Close has been called.
func (m *Mesh) Closed() bool { return m.closed }

func formatFloat(v float64, precision int) string {
	if precision <= 0 {
		precision = -1
	}
	return strconv.FormatFloat(v, 'g', precision, 64)
}
