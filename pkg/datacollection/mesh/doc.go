// Package mesh is a small unstructured mesh and grid function model with a
// plain-text wire format. It provides the collaborator contracts a data
// collection relies on: printing, reconstruction from a stream, and the
// dimension queries.
//
// Mesh files look like:
//
//	MFEM mesh v1.0
//
//	dimension
//	2
//
//	elements
//	1
//	1 3 0 1 2 3
//
//	boundary
//	0
//
//	vertices
//	4
//	2
//	0 0
//	1 0
//	1 1
//	0 1
//
// Each element line is "attribute geometry vertex...". Grid function files
// start with a FiniteElementSpace header followed by one value per line.
//
// No geometric or numeric algorithms live here.
package mesh
