// Package datastore publishes collection data into an in-memory hierarchy
// of groups and views for tools that inspect a running simulation.
//
// Array views reference the caller's slices and are never copied, so the
// tree always shows current values at the cost of exposing concurrent
// writes by the simulation. Counts and type tags are stored as small owned
// scalar and string views.
//
// The Adapter keeps a Store in sync with a collection through the
// collection's sink notifications:
//
//	store := datastore.New()
//	dc := datacollection.NewVisIt("run",
//	    datacollection.WithSink(datastore.NewAdapter(store, logger)))
//	dc.SetMesh(m)
//	view, _ := store.View("run/topology/coords/xyz")
//
// Store.Snapshot writes a msgpack copy of the tree and Handler serves it
// read-only over HTTP.
package datastore
