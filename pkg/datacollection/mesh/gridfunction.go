package mesh

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// Ordering is the layout of a vector-valued grid function.
type Ordering int

const (
	// ByNodes stores all values of component 0, then component 1, and so on.
	ByNodes Ordering = iota
	// ByVDim interleaves the components of each node.
	ByVDim
)

func (o Ordering) String() string {
	if o == ByVDim {
		return "byVDim"
	}
	return "byNode"
}

// GridFunction is a discrete field defined on a mesh.
type GridFunction struct {
	// Collection names the finite element collection, e.g. "H1_2D_P1".
	Collection string
	VDim       int
	Ordering   Ordering
	Data       []float64

	mesh   *Mesh
	closed bool
}

// NewGridFunction creates a grid function on m. VDim below 1 becomes 1.
func NewGridFunction(m *Mesh, collection string, vdim int, data []float64) *GridFunction {
	if vdim < 1 {
		vdim = 1
	}
	return &GridFunction{Collection: collection, VDim: vdim, Data: data, mesh: m}
}

// Mesh returns the mesh the grid function is bound to.
func (g *GridFunction) Mesh() *Mesh { return g.mesh }

// VectorDimension returns the number of components per node.
func (g *GridFunction) VectorDimension() int { return g.VDim }

// Save writes the grid function in the text wire format.
func (g *GridFunction) Save(w io.Writer, precision int) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "FiniteElementSpace\nFiniteElementCollection: %s\nVDim: %d\nOrdering: %d\n\n",
		g.Collection, g.VDim, int(g.Ordering))
	for _, v := range g.Data {
		bw.WriteString(formatFloat(v, precision))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadGridFunction constructs a grid function bound to m from r.
func ReadGridFunction(m *Mesh, r io.Reader) (*GridFunction, error) {
	tk := newTokens(r)
	g, err := readGridFunction(tk, m)
	if err != nil {
		return nil, err
	}
	if err := tk.err(); err != nil {
		return nil, err
	}
	return g, nil
}

func readGridFunction(tk *tokens, m *Mesh) (*GridFunction, error) {
	if err := tk.expect("FiniteElementSpace", "FiniteElementCollection:"); err != nil {
		return nil, err
	}
	coll, err := tk.word()
	if err != nil {
		return nil, err
	}
	if err := tk.expect("VDim:"); err != nil {
		return nil, err
	}
	vdim, err := tk.int()
	if err != nil {
		return nil, err
	}
	if vdim < 1 {
		return nil, fmt.Errorf("%w: vdim %d", ErrFormat, vdim)
	}
	if err := tk.expect("Ordering:"); err != nil {
		return nil, err
	}
	ord, err := tk.int()
	if err != nil {
		return nil, err
	}
	if ord != int(ByNodes) && ord != int(ByVDim) {
		return nil, fmt.Errorf("%w: ordering %d", ErrFormat, ord)
	}

	var data []float64
	for {
		w, ok := tk.next()
		if !ok {
			break
		}
		v, err := strconv.ParseFloat(w, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: value %q", ErrFormat, w)
		}
		data = append(data, v)
	}
	if len(data)%vdim != 0 {
		return nil, fmt.Errorf("%w: %d values not divisible by vdim %d", ErrFormat, len(data), vdim)
	}

	return &GridFunction{
		Collection: coll,
		VDim:       vdim,
		Ordering:   Ordering(ord),
		Data:       data,
		mesh:       m,
	}, nil
}

// Close releases the values. It is safe to call more than once.
func (g *GridFunction) Close() error {
	g.closed = true
	g.Data = nil
	return nil
}

// Closed reports whether Close has been called.
func (g *GridFunction) Closed() bool { return g.closed }

// Partitioned is one participant's piece of a distributed mesh.
type Partitioned struct {
	*Mesh
	topo topology.Topology
}

// NewPartitioned binds a local mesh piece to its distributed topology.
func NewPartitioned(m *Mesh, topo topology.Topology) *Partitioned {
	return &Partitioned{Mesh: m, topo: topo}
}

// Topology returns the distributed run this piece belongs to.
func (p *Partitioned) Topology() topology.Topology { return p.topo }
