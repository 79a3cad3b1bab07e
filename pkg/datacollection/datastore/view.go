package datastore

// Kind is the type of data a view holds.
type Kind int

// View kinds. KindFloats and KindInts are external.
const (
	KindFloats Kind = iota
	KindInts
	KindInt
	KindFloat
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindFloats:
		return "float64[]"
	case KindInts:
		return "int32[]"
	case KindInt:
		return "int64"
	case KindFloat:
		return "float64"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// View is a named leaf value. Views are replaced, never mutated.
type View struct {
	name   string
	kind   Kind
	floats []float64
	ints   []int32
	i      int64
	f      float64
	s      string
}

// Name returns the view name.
func (v *View) Name() string { return v.name }

// Kind returns the data kind.
func (v *View) Kind() Kind { return v.kind }

// External reports whether the view references caller memory.
func (v *View) External() bool {
	return v.kind == KindFloats || v.kind == KindInts
}

// Len returns the element count of an array view and 1 otherwise.
func (v *View) Len() int {
	switch v.kind {
	case KindFloats:
		return len(v.floats)
	case KindInts:
		return len(v.ints)
	default:
		return 1
	}
}

// Floats returns the referenced float slice, or nil.
func (v *View) Floats() []float64 { return v.floats }

// Ints returns the referenced int slice, or nil.
func (v *View) Ints() []int32 { return v.ints }

// Int returns the integer scalar.
func (v *View) Int() int64 { return v.i }

// Float returns the float scalar.
func (v *View) Float() float64 { return v.f }

// Text returns the string value.
func (v *View) Text() string { return v.s }

// Value returns the data as a plain Go value.
func (v *View) Value() any {
	switch v.kind {
	case KindFloats:
		return v.floats
	case KindInts:
		return v.ints
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	default:
		return v.s
	}
}
