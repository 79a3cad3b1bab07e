package datastore

import (
	"fmt"
	"log/slog"

	"github.com/randalmurphal/datacollection/pkg/datacollection"
	"github.com/randalmurphal/datacollection/pkg/datacollection/mesh"
)

// MeshSource is implemented by meshes whose arrays can be published.
// *mesh.Mesh and wrappers embedding it satisfy it.
type MeshSource interface {
	Base() *mesh.Mesh
}

// Group and view names of the projection.
const (
	GroupTopology         = "topology"
	GroupMeshElements     = "mesh_elements"
	GroupBoundaryElements = "boundary_elements"
	GroupCoords           = "coords"
	GroupNodes            = "nodes"

	TopologyUnstructured = "unstructured"
	CoordsExplicit       = "explicit"
	FieldSpaceType       = "FiniteElementSpace"
)

// Adapter mirrors collection data into a Store. Each collection gets a
// group named after it holding "topology" and one group per field.
//
// Objects the adapter cannot project are logged and skipped; the adapter
// never reports failure to the collection.
type Adapter struct {
	store  *Store
	logger *slog.Logger
}

// Compile-time interface check.
var _ datacollection.Sink = (*Adapter)(nil)

// NewAdapter creates an adapter publishing into store. logger may be nil.
func NewAdapter(store *Store, logger *slog.Logger) *Adapter {
	return &Adapter{store: store, logger: logger}
}

// Store returns the target store.
func (a *Adapter) Store() *Store { return a.store }

// MeshAttached replaces the collection's topology group with views over m.
func (a *Adapter) MeshAttached(collection string, m datacollection.Mesh) {
	src, ok := m.(MeshSource)
	if !ok || src.Base() == nil {
		a.skip(collection, GroupTopology, fmt.Sprintf("%T", m))
		return
	}
	base := src.Base()

	root := a.store.Root().CreateGroup(collection)
	root.DestroyGroup(GroupTopology)
	topo := root.CreateGroup(GroupTopology)
	topo.SetString("type", TopologyUnstructured)
	topo.SetInt("dimension", int64(base.Dimension()))

	if base.Elements.Len() > 0 {
		addElements(topo.CreateGroup(GroupMeshElements), base.Elements)
	}
	if base.Boundary.Len() > 0 {
		addElements(topo.CreateGroup(GroupBoundaryElements), base.Boundary)
	}

	coords := topo.CreateGroup(GroupCoords)
	coords.SetString("type", CoordsExplicit)
	coords.SetFloats("xyz", base.Vertices)

	if base.Nodes != nil {
		addField(topo.CreateGroup(GroupNodes), base.Nodes)
	}
}

// FieldRegistered replaces the field's group with views over f.
func (a *Adapter) FieldRegistered(collection, name string, f datacollection.Field) {
	gf, ok := f.(*mesh.GridFunction)
	if !ok || gf == nil {
		a.skip(collection, name, fmt.Sprintf("%T", f))
		return
	}
	if name == GroupTopology {
		a.skip(collection, name, "reserved group name")
		return
	}

	root := a.store.Root().CreateGroup(collection)
	root.DestroyGroup(name)
	addField(root.CreateGroup(name), gf)
}

// DataReleased drops the collection's group so no view outlives the data
// it references.
func (a *Adapter) DataReleased(collection string) {
	a.store.Root().DestroyGroup(collection)
}

func (a *Adapter) skip(collection, name, reason string) {
	if a.logger != nil {
		a.logger.Warn("datastore projection skipped",
			slog.String("collection", collection),
			slog.String("group", name),
			slog.String("reason", reason))
	}
}

func addElements(g *Group, b mesh.ElementBlock) {
	g.SetInt("number", int64(b.Len()))
	g.SetString("shape", b.Geometry.Shape())
	g.SetInts("connectivity", b.Connectivity)
	g.SetInts("material_attributes", b.Attributes)
}

func addField(g *Group, gf *mesh.GridFunction) {
	g.SetString("type", FieldSpaceType)
	g.SetString("name", gf.Collection)
	g.SetInt("dimension", int64(gf.VectorDimension()))
	g.SetString("ordering", gf.Ordering.String())
	g.SetFloats("data", gf.Data)
}
