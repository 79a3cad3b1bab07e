package datacollection

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// fakeMesh counts Close calls and prints a fixed body.
type fakeMesh struct {
	closes   int
	printErr error
}

func (m *fakeMesh) Print(w io.Writer, precision int) error {
	if m.printErr != nil {
		return m.printErr
	}
	_, err := fmt.Fprintf(w, "fake mesh %d\n", precision)
	return err
}

func (m *fakeMesh) SpaceDimension() int { return 3 }
func (m *fakeMesh) Dimension() int { return 2 }

func (m *fakeMesh) Close() error {
	m.closes++
	return nil
}

// fakeField counts Close calls and can fail its Save.
type fakeField struct {
	vdim    int
	closes  int
	saveErr error
}

func (f *fakeField) Save(w io.Writer, _ int) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	_, err := io.WriteString(w, "fake field\n")
	return err
}

func (f *fakeField) VectorDimension() int { return f.vdim }

func (f *fakeField) Close() error {
	f.closes++
	return nil
}

var errPrint = errors.New("print failed")

// sinkEvent is one notification seen by recordingSink.
type sinkEvent struct {
	kind       string
	collection string
	name       string
}

type recordingSink struct {
	mu     sync.Mutex
	events []sinkEvent
}

func (s *recordingSink) MeshAttached(collection string, _ Mesh) {
	s.add(sinkEvent{"mesh", collection, ""})
}

func (s *recordingSink) FieldRegistered(collection, name string, _ Field) {
	s.add(sinkEvent{"field", collection, name})
}

func (s *recordingSink) DataReleased(collection string) {
	s.add(sinkEvent{"released", collection, ""})
}

func (s *recordingSink) add(e sinkEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *recordingSink) kinds() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	for i, e := range s.events {
		out[i] = e.kind
	}
	return out
}
