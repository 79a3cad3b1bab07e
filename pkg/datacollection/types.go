package datacollection

import (
	"io"

	"github.com/randalmurphal/datacollection/pkg/datacollection/mesh"
	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// Mesh is the mesh contract a collection needs. Meshes that hold resources
// may also implement io.Closer; owned meshes are closed on release.
type Mesh interface {
	// Print writes the mesh, using precision significant digits for reals.
	Print(w io.Writer, precision int) error
	SpaceDimension() int
	Dimension() int
}

// Partitioned is implemented by meshes that are one piece of a distributed
// mesh. The topology determines rank, process count, and file naming.
type Partitioned interface {
	Mesh
	Topology() topology.Topology
}

// Field is a named solution quantity attached to the mesh. Fields may also
// implement io.Closer.
type Field interface {
	// Save writes the field, using precision significant digits for reals.
	Save(w io.Writer, precision int) error
	VectorDimension() int
}

// MeshReader reconstructs a mesh from its serialized form.
type MeshReader func(r io.Reader) (Mesh, error)

// FieldReader reconstructs a field bound to m from its serialized form.
type FieldReader func(m Mesh, r io.Reader) (Field, error)

// Sink receives notifications when a collection attaches or releases data.
// Sinks see the live objects and must not keep copies of their arrays.
type Sink interface {
	// MeshAttached is called after a mesh is attached.
	MeshAttached(collection string, m Mesh)
	// FieldRegistered is called after a field is registered or replaced.
	FieldRegistered(collection, name string, f Field)
	// DataReleased is called after the collection drops its mesh and fields.
	DataReleased(collection string)
}

// ReadMesh decodes the text format of the mesh package.
func ReadMesh(r io.Reader) (Mesh, error) {
	m, err := mesh.Read(r)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ReadField decodes a grid function of the mesh package. The mesh may be
// any Mesh; grid functions bind to its *mesh.Mesh base when it has one.
func ReadField(m Mesh, r io.Reader) (Field, error) {
	var base *mesh.Mesh
	if b, ok := m.(interface{ Base() *mesh.Mesh }); ok {
		base = b.Base()
	}
	gf, err := mesh.ReadGridFunction(base, r)
	if err != nil {
		return nil, err
	}
	return gf, nil
}
