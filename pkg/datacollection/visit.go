package datacollection

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/randalmurphal/datacollection/pkg/datacollection/catalog"
	"github.com/randalmurphal/datacollection/pkg/datacollection/observability"
	"github.com/randalmurphal/datacollection/pkg/datacollection/registry"
	"github.com/randalmurphal/datacollection/pkg/datacollection/rootfile"
	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// DefaultMaxLevelsOfDetail is the refinement hint written for new meshes.
const DefaultMaxLevelsOfDetail = 32

// NodalAssociation is the association recorded for registered fields.
const NodalAssociation = "nodes"

// FieldInfo is the per-field metadata carried in a root document.
type FieldInfo struct {
	Association   string
	NumComponents int
}

// VisItDataCollection is a DataCollection that also writes a JSON root
// document per cycle and can load a saved cycle back.
//
// File names always carry the rank suffix, since the root document refers
// to them through a "%0Nd" template, and the cycle is never negative.
type VisItDataCollection struct {
	*DataCollection

	fieldInfo  *registry.Registry[string, FieldInfo]
	spatialDim int
	topoDim    int
}

// NewVisIt creates a root-document collection named name.
func NewVisIt(name string, opts ...Option) *VisItDataCollection {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.cycle == nil || *o.cycle < 0 {
		zero := 0
		o.cycle = &zero
	}

	v := &VisItDataCollection{
		DataCollection: newCollection(name, o),
		fieldInfo:      registry.New[string, FieldInfo](),
	}
	v.serial = false
	v.cacheDims()
	return v
}

func (v *VisItDataCollection) cacheDims() {
	if m := v.mesh.value; m != nil {
		v.spatialDim = m.SpaceDimension()
		v.topoDim = m.Dimension()
	}
}

// SetMesh attaches m and caches its dimensions.
func (v *VisItDataCollection) SetMesh(m Mesh) {
	v.DataCollection.SetMesh(m)
	v.serial = false
	v.cacheDims()
}

// SetCycle sets the cycle; negative values become 0.
func (v *VisItDataCollection) SetCycle(cycle int) {
	if cycle < 0 {
		cycle = 0
	}
	v.DataCollection.SetCycle(cycle)
}

// RegisterField registers f as a nodal field with f's vector dimension as
// its component count.
func (v *VisItDataCollection) RegisterField(name string, f Field) {
	v.DataCollection.RegisterField(name, f)
	if f == nil {
		return
	}
	v.fieldInfo.Register(name, FieldInfo{
		Association:   NodalAssociation,
		NumComponents: f.VectorDimension(),
	})
}

// SetMaxLevelsOfDetail sets the refinement hint written to root documents.
func (v *VisItDataCollection) SetMaxLevelsOfDetail(n int) { v.maxLODs = n }

// MaxLevelsOfDetail returns the refinement hint.
func (v *VisItDataCollection) MaxLevelsOfDetail() int { return v.maxLODs }

// SpatialDim returns the cached spatial dimension.
func (v *VisItDataCollection) SpatialDim() int { return v.spatialDim }

// TopoDim returns the cached topological dimension.
func (v *VisItDataCollection) TopoDim() int { return v.topoDim }

// FieldInfo returns the root-document metadata of a registered field.
func (v *VisItDataCollection) FieldInfo(name string) (FieldInfo, bool) {
	return v.fieldInfo.Get(name)
}

// document describes the current state as a root document.
func (v *VisItDataCollection) document() rootfile.Document {
	dir := CycleDir("", v.name, v.cycle, v.padDigits)
	doc := rootfile.Document{
		Cycle:   v.cycle,
		Time:    v.time,
		Domains: v.size,
		Mesh: rootfile.MeshEntry{
			Path:       rootfile.FileTemplate(dir, "mesh", v.padDigits),
			SpatialDim: v.spatialDim,
			TopoDim:    v.topoDim,
			MaxLODs:    v.maxLODs,
		},
	}
	if v.fieldInfo.Len() > 0 {
		doc.Fields = make(map[string]rootfile.FieldEntry, v.fieldInfo.Len())
		v.fieldInfo.Range(func(name string, info FieldInfo) bool {
			doc.Fields[name] = rootfile.FieldEntry{
				Path:        rootfile.FileTemplate(dir, name, v.padDigits),
				Association: info.Association,
				Components:  info.NumComponents,
			}
			return true
		})
	}
	return doc
}

// RootString renders the root document for the current state. It does no
// I/O and does not touch the error state.
func (v *VisItDataCollection) RootString() (string, error) {
	data, err := rootfile.Encode(v.document())
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ParseRootString restores cycle, time, domain count, mesh dimensions, the
// collection name, and the field table from a root document. Failure sets
// ReadError.
func (v *VisItDataCollection) ParseRootString(s string) error {
	doc, err := rootfile.Decode([]byte(s))
	if err != nil {
		return v.fail(ReadError, "parse root", "", err)
	}
	name, err := doc.Name()
	if err != nil {
		return v.fail(ReadError, "parse root", "", err)
	}

	v.name = name
	v.cycle = doc.Cycle
	v.time = doc.Time
	v.size = doc.Domains
	v.spatialDim = doc.Mesh.SpatialDim
	v.topoDim = doc.Mesh.TopoDim
	v.maxLODs = doc.Mesh.MaxLODs

	v.fieldInfo.Clear()
	for fieldName, f := range doc.Fields {
		v.fieldInfo.Register(fieldName, FieldInfo{
			Association:   f.Association,
			NumComponents: f.Components,
		})
	}
	return nil
}

// SaveRootFile writes the root document of the current cycle. Only the
// leader writes; other participants return nil.
func (v *VisItDataCollection) SaveRootFile(ctx context.Context) error {
	if v.err != nil {
		return v.err
	}
	return v.saveRootFile(ctx)
}

func (v *VisItDataCollection) saveRootFile(ctx context.Context) error {
	if v.rank != topology.Leader {
		return nil
	}

	path := RootFileName(v.prefixPath, v.name, v.cycle, v.padDigits)
	data, err := rootfile.Encode(v.document())
	if err != nil {
		return v.fail(WriteError, "save root", path, err)
	}
	err = v.writeFile(ctx, "root", path, false, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	if err != nil {
		return v.fail(WriteError, "save root", path, err)
	}
	return nil
}

// Save writes mesh and fields, then the root document. With a catalog
// configured, the leader records the cycle afterwards.
//
// Unlike a plain SaveMesh, SaveField, SaveRootFile sequence, Save skips the
// root document when any mesh or field write failed, so a root document on
// disk never advertises an incomplete cycle. Call SaveRootFile after
// ResetError to write it regardless.
func (v *VisItDataCollection) Save(ctx context.Context) error {
	return v.save(ctx, func(ctx context.Context, saveID string) error {
		if err := v.saveRootFile(ctx); err != nil {
			return err
		}
		v.record(saveID)
		return nil
	})
}

// record adds the saved cycle to the catalog. Failures are logged only;
// the root document on disk stays authoritative.
func (v *VisItDataCollection) record(saveID string) {
	if v.catalog == nil || v.rank != topology.Leader {
		return
	}
	err := v.catalog.Record(catalog.Entry{
		Collection: v.name,
		Cycle:      v.cycle,
		Time:       v.time,
		Domains:    v.size,
		RootPath:   RootFileName(v.prefixPath, v.name, v.cycle, v.padDigits),
		SaveID:     saveID,
		SavedAt:    time.Now().UTC(),
	})
	if err != nil {
		v.logWarn("record cycle", err)
	}
}

// Load replaces the collection's contents with the saved cycle.
//
// Any attached data is dropped first, even when an error is already set,
// in which case that error is returned without reading anything. The root
// document, this rank's mesh file, and every field file are read in that
// order; the first failure sets ReadError and leaves the collection empty.
// On success the loaded mesh and fields are owned.
func (v *VisItDataCollection) Load(ctx context.Context, cycle int) error {
	v.DeleteAll()
	v.SetCycle(cycle)
	if v.err != nil {
		return v.err
	}

	logger := v.cycleLogger()
	ctx, span := v.spans.StartLoadSpan(ctx, v.name, v.cycle, v.rank)
	start := time.Now()
	done := observability.TimedOperation()

	err := v.load(ctx)
	if err != nil {
		v.DeleteAll()
	} else {
		v.SetOwnData(true)
		v.notifyMesh()
		v.fields.Range(func(name string, h handle[Field]) bool {
			v.notifyField(name, h.value)
			return true
		})
	}

	v.metrics.RecordLoad(ctx, v.name, time.Since(start), err)
	v.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogLoadError(logger, err, done())
	} else {
		observability.LogLoadComplete(logger, done(), v.fields.Len())
	}
	return err
}

func (v *VisItDataCollection) load(ctx context.Context) error {
	path := RootFileName(v.prefixPath, v.name, v.cycle, v.padDigits)
	data, err := os.ReadFile(path)
	if err != nil {
		return v.fail(ReadError, "read root", path, err)
	}
	if err := v.ParseRootString(string(data)); err != nil {
		return err
	}
	if err := v.loadMesh(); err != nil {
		return err
	}
	v.spans.AddSpanEvent(ctx, "mesh.loaded")
	return v.loadFields()
}

func (v *VisItDataCollection) loadMesh() error {
	path := MeshFileName(v.dir(), false, v.rank, v.padDigits)

	var m Mesh
	err := readFile(path, func(r io.Reader) error {
		var err error
		m, err = v.meshReader(r)
		return err
	})
	if err != nil {
		return v.fail(ReadError, "load mesh", path, err)
	}
	if m == nil {
		return v.fail(ReadError, "load mesh", path, fmt.Errorf("reader returned no mesh"))
	}

	v.mesh = newHandle(m, true)
	v.cacheDims()
	return nil
}

func (v *VisItDataCollection) loadFields() error {
	dir := v.dir()
	for _, name := range v.fieldInfo.Keys() {
		path := FieldFileName(dir, name, false, v.rank, v.padDigits)

		var f Field
		err := readFile(path, func(r io.Reader) error {
			var err error
			f, err = v.fieldReader(v.mesh.value, r)
			return err
		})
		if err != nil {
			return v.fail(ReadError, "load field", path, err)
		}
		if f == nil {
			return v.fail(ReadError, "load field", path, fmt.Errorf("reader returned no field"))
		}
		v.fields.Register(name, newHandle(f, true))
	}
	return nil
}

// LoadLatest loads the newest cycle the catalog knows for this collection.
func (v *VisItDataCollection) LoadLatest(ctx context.Context) error {
	if v.catalog == nil {
		return ErrNoCatalog
	}
	if v.err != nil {
		v.DeleteAll()
		return v.err
	}
	entry, err := v.catalog.Latest(v.name)
	if err != nil {
		return v.fail(ReadError, "catalog lookup", "", err)
	}
	return v.Load(ctx, entry.Cycle)
}

// DeleteAll drops every mesh, field, and field table entry.
func (v *VisItDataCollection) DeleteAll() {
	v.DataCollection.DeleteAll()
	v.fieldInfo.Clear()
}
