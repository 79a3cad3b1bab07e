package datacollection

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/randalmurphal/datacollection/pkg/datacollection/catalog"
	"github.com/randalmurphal/datacollection/pkg/datacollection/observability"
	"github.com/randalmurphal/datacollection/pkg/datacollection/registry"
	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// DataCollection saves a mesh and its registered fields for one cycle at a
// time.
//
// Files land under <prefix><name>[_<cycle>]/ as "mesh" and one file per
// field, each with a ".<rank>" suffix when the mesh is distributed.
//
// Errors are sticky: the first failure is kept and reported by Err until
// ResetError is called, and Save, SaveMesh, and SaveField do nothing while
// an error is set. A DataCollection is not safe for concurrent use; each
// participant of a distributed run owns its own instance.
type DataCollection struct {
	name       string
	prefixPath string

	mesh    handle[Mesh]
	fields  *registry.Registry[string, handle[Field]]
	ownData bool

	topo     topology.Topology
	baseTopo topology.Topology
	rank     int
	size     int
	serial   bool

	cycle     int
	time      float64
	precision int
	padDigits int

	status ErrorKind
	err    error
	closed bool

	dirs         DirectoryCoordinator
	compression  Compression
	logger       *slog.Logger
	metrics      observability.MetricsRecorder
	spans        observability.SpanManager
	sinks        []Sink
	catalog      catalog.Catalog
	meshReader   MeshReader
	fieldReader  FieldReader
	maxLODs      int
	filesWritten int
}

// New creates a collection named name. Without WithMesh it starts empty.
func New(name string, opts ...Option) *DataCollection {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newCollection(name, o)
}

func newCollection(name string, o options) *DataCollection {
	c := &DataCollection{
		name:        name,
		prefixPath:  NormalizePrefix(o.prefixPath),
		fields:      registry.New[string, handle[Field]](),
		ownData:     o.ownData,
		baseTopo:    o.topo,
		cycle:       NoCycle,
		time:        o.time,
		precision:   o.precision,
		padDigits:   o.padDigits,
		dirs:        DirectoryCoordinator{Mkdir: o.mkdir},
		compression: o.compression,
		logger:      o.logger,
		metrics:     o.metrics,
		spans:       o.spans,
		sinks:       o.sinks,
		catalog:     o.catalog,
		meshReader:  o.meshReader,
		fieldReader: o.fieldReader,
		maxLODs:     o.maxLODs,
	}
	if o.cycle != nil {
		c.cycle = *o.cycle
	}
	c.attachMesh(o.mesh)
	return c
}

// Name returns the collection name.
func (c *DataCollection) Name() string { return c.name }

// PrefixPath returns the output parent directory, "" or ending in "/".
func (c *DataCollection) PrefixPath() string { return c.prefixPath }

// SetPrefixPath sets the output parent directory.
func (c *DataCollection) SetPrefixPath(prefix string) {
	c.prefixPath = NormalizePrefix(prefix)
}

// Cycle returns the current cycle, or NoCycle.
func (c *DataCollection) Cycle() int { return c.cycle }

// SetCycle sets the cycle used for the next save. NoCycle drops the cycle
// suffix from the directory name.
func (c *DataCollection) SetCycle(cycle int) { c.cycle = cycle }

// Time returns the simulation time.
func (c *DataCollection) Time() float64 { return c.time }

// SetTime sets the simulation time.
func (c *DataCollection) SetTime(t float64) { c.time = t }

// Precision returns the significant digits of real output.
func (c *DataCollection) Precision() int { return c.precision }

// SetPrecision sets the significant digits of real output.
func (c *DataCollection) SetPrecision(digits int) { c.precision = digits }

// PadDigits returns the zero-pad width of cycle and rank suffixes.
func (c *DataCollection) PadDigits() int { return c.padDigits }

// SetPadDigits sets the zero-pad width of cycle and rank suffixes.
func (c *DataCollection) SetPadDigits(digits int) { c.padDigits = digits }

// Rank returns this participant's rank.
func (c *DataCollection) Rank() int { return c.rank }

// Size returns the number of participants.
func (c *DataCollection) Size() int { return c.size }

// Serial reports whether file names omit the rank suffix.
func (c *DataCollection) Serial() bool { return c.serial }

// OwnsData reports whether attached meshes and fields are owned.
func (c *DataCollection) OwnsData() bool { return c.ownData }

// SetOwnData changes ownership of everything currently attached and of
// everything attached later.
func (c *DataCollection) SetOwnData(own bool) {
	c.ownData = own
	if c.mesh.value != nil {
		c.mesh.owned = own
	}
	c.fields.Update(func(_ string, h handle[Field]) handle[Field] {
		if h.value != nil {
			h.owned = own
		}
		return h
	})
}

// Mesh returns the attached mesh, or nil.
func (c *DataCollection) Mesh() Mesh { return c.mesh.value }

// SetMesh attaches m, releasing the previous mesh first if it was owned.
// Rank, size, and file naming follow the topology of m.
func (c *DataCollection) SetMesh(m Mesh) {
	if err := c.mesh.release(); err != nil {
		c.logWarn("release mesh", err)
	}
	c.attachMesh(m)
}

func (c *DataCollection) attachMesh(m Mesh) {
	c.mesh = newHandle(m, c.ownData)
	topo := c.baseTopo
	if p, ok := m.(Partitioned); ok && p.Topology() != nil && p.Topology().Distributed() {
		topo = p.Topology()
	}
	c.useTopology(topo)
	if m != nil {
		c.notifyMesh()
	}
}

// useTopology derives rank, size, and file naming from topo.
func (c *DataCollection) useTopology(topo topology.Topology) {
	c.topo, c.rank, c.size, c.serial = nil, 0, 1, true
	if topo != nil && topo.Distributed() {
		c.topo = topo
		c.rank = topo.Rank()
		c.size = topo.Size()
		c.serial = false
	}
}

func (c *DataCollection) notifyMesh() {
	for _, s := range c.sinks {
		s.MeshAttached(c.name, c.mesh.value)
	}
}

func (c *DataCollection) notifyField(name string, f Field) {
	for _, s := range c.sinks {
		s.FieldRegistered(c.name, name, f)
	}
}

// RegisterField adds f under name, replacing and (if owned) releasing any
// field already registered under that name. A nil field is ignored.
func (c *DataCollection) RegisterField(name string, f Field) {
	if f == nil {
		c.logWarn("register field "+name, errors.New("nil field"))
		return
	}
	old, replaced := c.fields.Register(name, newHandle(f, c.ownData))
	if replaced && old.value != f {
		if err := old.release(); err != nil {
			c.logWarn("release field "+name, err)
		}
	}
	c.notifyField(name, f)
}

// HasField reports whether name is registered.
func (c *DataCollection) HasField(name string) bool {
	return c.fields.Has(name)
}

// Field returns the field registered under name, or nil.
func (c *DataCollection) Field(name string) Field {
	h, ok := c.fields.Get(name)
	if !ok {
		return nil
	}
	return h.value
}

// FieldNames returns the registered names in ascending order.
func (c *DataCollection) FieldNames() []string {
	return c.fields.Keys()
}

// Err returns the sticky error, or nil.
func (c *DataCollection) Err() error { return c.err }

// Status returns the kind of the sticky error.
func (c *DataCollection) Status() ErrorKind { return c.status }

// ResetError clears the sticky error.
func (c *DataCollection) ResetError() {
	c.status = NoError
	c.err = nil
}

// fail records a failure. The first failure wins the sticky slot; the
// returned error always describes this failure.
func (c *DataCollection) fail(kind ErrorKind, op, path string, cause error) error {
	err := &CollectionError{Kind: kind, Op: op, Path: path, Err: cause}
	if c.status == NoError {
		c.status = kind
		c.err = err
	}
	observability.LogFileError(c.logger, op, path, cause)
	return err
}

func (c *DataCollection) logWarn(op string, err error) {
	if c.logger != nil {
		c.logger.Warn("collection warning",
			slog.String("collection", c.name),
			slog.String("operation", op),
			slog.String("error", err.Error()))
	}
}

func (c *DataCollection) cycleLogger() *slog.Logger {
	return observability.EnrichLogger(c.logger, c.name, c.cycle, c.rank)
}

// dir returns the directory of the current cycle.
func (c *DataCollection) dir() string {
	return CycleDir(c.prefixPath, c.name, c.cycle, c.padDigits)
}

// Save writes the mesh and every registered field for the current cycle.
//
// A mesh failure stops the save before any field is written. A field
// failure is recorded but the remaining fields are still written; the
// first error is returned.
func (c *DataCollection) Save(ctx context.Context) error {
	return c.save(ctx, nil)
}

// save wraps a full save with tracing, metrics, and logging. finish runs
// after mesh and fields, only if they all succeeded.
func (c *DataCollection) save(ctx context.Context, finish func(ctx context.Context, saveID string) error) error {
	if c.err != nil {
		return c.err
	}

	saveID := uuid.NewString()
	logger := c.cycleLogger()
	ctx, span := c.spans.StartSaveSpan(ctx, c.name, c.cycle, c.rank)
	start := time.Now()
	done := observability.TimedOperation()
	c.filesWritten = 0
	observability.LogSaveStart(logger, saveID, c.fields.Len())

	err := c.saveMeshAndFields(ctx)
	if err == nil && finish != nil {
		err = finish(ctx, saveID)
	}

	c.metrics.RecordSave(ctx, c.name, time.Since(start), err)
	c.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogSaveError(logger, saveID, err, done())
	} else {
		observability.LogSaveComplete(logger, saveID, done(), c.filesWritten)
	}
	return err
}

func (c *DataCollection) saveMeshAndFields(ctx context.Context) error {
	if err := c.saveMesh(ctx); err != nil {
		return err
	}

	var first error
	for _, name := range c.fields.Keys() {
		if err := c.saveOneField(ctx, name); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// SaveMesh creates the output directories and writes the mesh file.
func (c *DataCollection) SaveMesh(ctx context.Context) error {
	if c.err != nil {
		return c.err
	}
	return c.saveMesh(ctx)
}

func (c *DataCollection) saveMesh(ctx context.Context) error {
	if c.prefixPath != "" {
		if err := c.dirs.Ensure(c.prefixPath, c.topo); err != nil {
			return c.fail(WriteError, "create directory", c.prefixPath, err)
		}
	}

	dir := c.dir()
	if err := c.dirs.Ensure(dir, c.topo); err != nil {
		return c.fail(WriteError, "create directory", dir, err)
	}

	m := c.mesh.value
	path := MeshFileName(dir, c.serial, c.rank, c.padDigits)
	if m == nil {
		return c.fail(WriteError, "save mesh", path, ErrNoMesh)
	}

	err := c.writeFile(ctx, "mesh", path, true, func(w io.Writer) error {
		return m.Print(w, c.precision)
	})
	if err != nil {
		return c.fail(WriteError, "save mesh", path, err)
	}
	c.spans.AddSpanEvent(ctx, "mesh.saved")
	return nil
}

// SaveField writes one registered field into the current cycle directory.
// An unregistered name is not an error.
func (c *DataCollection) SaveField(ctx context.Context, name string) error {
	if c.err != nil {
		return c.err
	}
	if !c.fields.Has(name) {
		return nil
	}
	return c.saveOneField(ctx, name)
}

func (c *DataCollection) saveOneField(ctx context.Context, name string) error {
	path := FieldFileName(c.dir(), name, c.serial, c.rank, c.padDigits)

	h, _ := c.fields.Get(name)
	if h.value == nil {
		return c.fail(WriteError, "save field", path, errors.New("field data released"))
	}

	err := c.writeFile(ctx, "field", path, true, func(w io.Writer) error {
		return h.value.Save(w, c.precision)
	})
	if err != nil {
		return c.fail(WriteError, "save field", path, err)
	}
	return nil
}

// DeleteData releases owned data and forgets every mesh and field, keeping
// the field names registered. Ownership is reset to borrowed.
func (c *DataCollection) DeleteData() {
	if err := c.mesh.release(); err != nil {
		c.logWarn("release mesh", err)
	}
	c.fields.Update(func(name string, h handle[Field]) handle[Field] {
		if err := h.release(); err != nil {
			c.logWarn("release field "+name, err)
		}
		return h
	})
	c.ownData = false
	for _, s := range c.sinks {
		s.DataReleased(c.name)
	}
}

// DeleteAll is DeleteData followed by unregistering every field.
func (c *DataCollection) DeleteAll() {
	c.DeleteData()
	c.fields.Clear()
}

// Close releases owned data. Calling Close again does nothing.
func (c *DataCollection) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true

	var errs []error
	if err := c.mesh.release(); err != nil {
		errs = append(errs, err)
	}
	c.fields.Update(func(_ string, h handle[Field]) handle[Field] {
		if err := h.release(); err != nil {
			errs = append(errs, err)
		}
		return h
	})
	c.fields.Clear()
	return errors.Join(errs...)
}
