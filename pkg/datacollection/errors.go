package datacollection

import (
	"errors"
	"fmt"
)

// ErrorKind is the sticky error state of a collection.
type ErrorKind int

const (
	// NoError means every operation so far succeeded.
	NoError ErrorKind = iota
	// ReadError covers opening or parsing anything for read.
	ReadError
	// WriteError covers creating directories and opening or writing files.
	WriteError
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case ReadError:
		return "read error"
	case WriteError:
		return "write error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Sentinel errors. A *CollectionError unwraps to ErrRead or ErrWrite
// according to its kind, and to its cause.
var (
	// ErrRead indicates a failure opening or parsing persisted data.
	ErrRead = errors.New("read error")

	// ErrWrite indicates a failure creating a directory or writing a file.
	ErrWrite = errors.New("write error")

	// ErrNoMesh indicates a save was attempted without an attached mesh.
	ErrNoMesh = errors.New("no mesh attached")

	// ErrNoCatalog indicates LoadLatest was called without a catalog.
	ErrNoCatalog = errors.New("no catalog configured")
)

// CollectionError describes a failed collection operation.
type CollectionError struct {
	// Kind is ReadError or WriteError.
	Kind ErrorKind
	// Op names the failed step, e.g. "save mesh" or "parse root".
	Op string
	// Path is the file or directory involved, if any.
	Path string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *CollectionError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s %s: %s: %v", e.Op, e.Path, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the kind sentinel and the underlying error for errors.Is/As.
func (e *CollectionError) Unwrap() []error {
	var kind error
	switch e.Kind {
	case ReadError:
		kind = ErrRead
	case WriteError:
		kind = ErrWrite
	}
	if kind == nil {
		return []error{e.Err}
	}
	return []error{kind, e.Err}
}
