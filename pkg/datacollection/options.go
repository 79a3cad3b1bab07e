package datacollection

import (
	"log/slog"
	"os"

	"github.com/randalmurphal/datacollection/pkg/datacollection/catalog"
	"github.com/randalmurphal/datacollection/pkg/datacollection/observability"
	"github.com/randalmurphal/datacollection/pkg/datacollection/topology"
)

// Compression selects how mesh and field files are encoded on disk.
// Root documents are always plain JSON.
type Compression string

const (
	// CompressionNone writes plain text files.
	CompressionNone Compression = "none"
	// CompressionLZ4 writes LZ4 frames. Loads detect the frame header, so a
	// reader does not need to know how a cycle was written.
	CompressionLZ4 Compression = "lz4"
)

// options holds construction-time configuration.
type options struct {
	mesh        Mesh
	topo        topology.Topology
	prefixPath  string
	cycle       *int
	time        float64
	precision   int
	padDigits   int
	maxLODs     int
	ownData     bool
	compression Compression
	mkdir       func(string, os.FileMode) error
	logger      *slog.Logger
	metrics     observability.MetricsRecorder
	spans       observability.SpanManager
	sinks       []Sink
	catalog     catalog.Catalog
	meshReader  MeshReader
	fieldReader FieldReader
}

func defaultOptions() options {
	return options{
		precision:   DefaultPrecision,
		padDigits:   DefaultPadDigits,
		maxLODs:     DefaultMaxLevelsOfDetail,
		compression: CompressionNone,
		metrics:     observability.NoopMetrics{},
		spans:       observability.NoopSpanManager{},
		meshReader:  ReadMesh,
		fieldReader: ReadField,
	}
}

// Option configures a collection.
type Option func(*options)

// WithMesh attaches a mesh at construction.
func WithMesh(m Mesh) Option {
	return func(o *options) { o.mesh = m }
}

// WithTopology sets the participant identity used until a partitioned mesh
// is attached, and while loading. A collection that loads its mesh from disk
// needs this to find its own rank's files.
func WithTopology(t topology.Topology) Option {
	return func(o *options) { o.topo = t }
}

// WithPrefixPath sets the parent directory of all output.
func WithPrefixPath(prefix string) Option {
	return func(o *options) { o.prefixPath = prefix }
}

// WithCycle sets the initial cycle.
func WithCycle(cycle int) Option {
	return func(o *options) { o.cycle = &cycle }
}

// WithTime sets the initial simulation time.
func WithTime(t float64) Option {
	return func(o *options) { o.time = t }
}

// WithPrecision sets the significant digits used for reals in mesh and
// field files. Default: 6
func WithPrecision(digits int) Option {
	return func(o *options) {
		if digits > 0 {
			o.precision = digits
		}
	}
}

// WithPadDigits sets the zero-pad width of cycle and rank suffixes.
// Default: 6
func WithPadDigits(digits int) Option {
	return func(o *options) {
		if digits > 0 {
			o.padDigits = digits
		}
	}
}

// WithMaxLevelsOfDetail sets the visualization hint written to root
// documents. Default: 32
func WithMaxLevelsOfDetail(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxLODs = n
		}
	}
}

// WithOwnData makes the collection own the mesh and fields it is given.
func WithOwnData(own bool) Option {
	return func(o *options) { o.ownData = own }
}

// WithCompression selects the encoding of mesh and field files.
// Unknown values are ignored.
func WithCompression(c Compression) Option {
	return func(o *options) {
		if c == CompressionNone || c == CompressionLZ4 {
			o.compression = c
		}
	}
}

// WithMkdir replaces the directory creation call.
// Default: os.MkdirAll
func WithMkdir(mkdir func(path string, perm os.FileMode) error) Option {
	return func(o *options) { o.mkdir = mkdir }
}

// WithLogger enables structured logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithMetrics enables metrics recording.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithTracing enables span creation for saves and loads.
func WithTracing(s observability.SpanManager) Option {
	return func(o *options) {
		if s != nil {
			o.spans = s
		}
	}
}

// WithSink registers a sink for attach and release notifications.
func WithSink(s Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sinks = append(o.sinks, s)
		}
	}
}

// WithCatalog records every successful cycle save in c.
func WithCatalog(c catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithReaders replaces the mesh and field decoders used by Load.
// Default: ReadMesh and ReadField
func WithReaders(mr MeshReader, fr FieldReader) Option {
	return func(o *options) {
		if mr != nil {
			o.meshReader = mr
		}
		if fr != nil {
			o.fieldReader = fr
		}
	}
}
