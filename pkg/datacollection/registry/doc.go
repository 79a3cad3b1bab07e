// Package registry provides a generic key-ordered registry.
//
// Registry keeps one value per key and always iterates in ascending key
// order, which is the order a collection writes its fields and the order
// the field-info side table appears in a root document.
//
// # Basic Usage
//
//	r := registry.New[string, int]()
//	r.Register("pressure", 1)
//	old, replaced := r.Register("pressure", 3) // old == 1, replaced == true
//
//	r.Range(func(name string, comps int) bool {
//	    fmt.Println(name, comps)
//	    return true
//	})
//
// Register reports the value it displaced so callers that own their values
// can release them before the reference is lost.
//
// # Thread Safety
//
// All methods are safe for concurrent use. Range iterates over a snapshot,
// so the callback may mutate the registry.
package registry
