/*
Package datacollection saves a simulation's mesh and fields to disk at
discrete cycles and reads a saved cycle back for restart or visualization.

# Overview

A DataCollection holds one mesh and any number of named fields. Each Save
writes them into a cycle directory, one file per participant of a
distributed run:

	<prefix><name>_<cycle>/mesh.<rank>
	<prefix><name>_<cycle>/<field>.<rank>

Serial runs drop the ".<rank>" suffix, and a base collection without a
cycle drops "_<cycle>" from the directory name.

VisItDataCollection adds a JSON root document per cycle,
"<prefix><name>_<cycle>.mfem_root", written by the leader only. Load reads a
root document and this participant's files back into an owned mesh and
field set.

# Basic Usage

	dc := datacollection.NewVisIt("run",
	    datacollection.WithPrefixPath("out"),
	    datacollection.WithMesh(m),
	    datacollection.WithLogger(logger))
	dc.RegisterField("pressure", p)

	for cycle := 0; cycle < steps; cycle++ {
	    advance()
	    dc.SetCycle(cycle)
	    dc.SetTime(t)
	    if err := dc.Save(ctx); err != nil {
	        return err
	    }
	}

Restart:

	dc := datacollection.NewVisIt("run", datacollection.WithPrefixPath("out"))
	if err := dc.Load(ctx, 12); err != nil {
	    return err
	}
	m := dc.Mesh()

# Errors

Operations return a *CollectionError that unwraps to ErrRead or ErrWrite
and to its cause. The first failure also becomes the collection's sticky
error: Err and Status report it, and Save, SaveMesh, SaveField, and Load
return it without doing any I/O until ResetError is called.

Within Save a mesh failure stops before any field is written, while a
failing field does not stop the remaining fields. A root document is only
written for a fully saved cycle. A failed Load leaves the collection empty.

# Ownership

Meshes and fields are borrowed unless WithOwnData or SetOwnData says
otherwise. Owned objects that implement io.Closer are closed when they are
replaced, on DeleteData, DeleteAll, and Close. Everything Load creates is
owned.

# Distributed Runs

A mesh implementing Partitioned supplies the topology: rank, participant
count, and file naming follow it. Directory creation is the only collective
step; the leader creates each directory and broadcasts the outcome, so every
participant sees the same result. The topology package provides Serial and
an in-process Group for tests and single-process drivers.

# Integration

  - WithCatalog records every saved cycle; LoadLatest restarts from the
    newest one (package catalog, SQLite or in-memory).
  - WithSink receives attach and release notifications; the datastore
    package uses them to publish non-owning views of mesh arrays.
  - WithCompression(CompressionLZ4) writes mesh and field files as LZ4
    frames. Load detects them automatically.
  - WithMetrics and WithTracing use OpenTelemetry (package observability).
  - OptionsFromConfig maps YAML or JSON settings to options.
*/
package datacollection
