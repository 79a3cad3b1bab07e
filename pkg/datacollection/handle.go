package datacollection

import "io"

// handle tags a mesh or field with its ownership. Releasing an owned
// handle closes the value; releasing a borrowed one only forgets it.
type handle[T any] struct {
	value T
	owned bool
}

func newHandle[T any](v T, owned bool) handle[T] {
	return handle[T]{value: v, owned: owned}
}

// release closes the value iff owned and clears the handle, so a second
// release never closes anything.
func (h *handle[T]) release() error {
	var err error
	if h.owned {
		if c, ok := any(h.value).(io.Closer); ok {
			err = c.Close()
		}
	}
	*h = handle[T]{}
	return err
}
