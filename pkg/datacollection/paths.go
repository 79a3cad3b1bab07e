package datacollection

import (
	"fmt"
	"strings"

	"github.com/randalmurphal/datacollection/pkg/datacollection/rootfile"
)

// Defaults for numeric output.
const (
	// DefaultPadDigits is the zero-pad width of cycle and rank suffixes.
	DefaultPadDigits = 6
	// DefaultPrecision is the number of significant digits in ASCII output.
	DefaultPrecision = 6
	// NoCycle leaves the cycle suffix out of directory names.
	NoCycle = -1
)

// ZeroPad formats v as a decimal left-filled with zeros to digits
// characters. Wider values are not truncated.
func ZeroPad(v, digits int) string {
	return fmt.Sprintf("%0*d", digits, v)
}

// NormalizePrefix makes prefix end with "/" unless it is empty.
func NormalizePrefix(prefix string) string {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		return prefix + "/"
	}
	return prefix
}

// CycleDir returns the directory holding one cycle's mesh and field files.
func CycleDir(prefix, name string, cycle, padDigits int) string {
	if cycle == NoCycle {
		return prefix + name
	}
	return prefix + name + rootfile.CycleSeparator + ZeroPad(cycle, padDigits)
}

// MeshFileName returns the mesh file path inside dir.
func MeshFileName(dir string, serial bool, rank, padDigits int) string {
	return FieldFileName(dir, "mesh", serial, rank, padDigits)
}

// FieldFileName returns the file path of a field inside dir.
func FieldFileName(dir, fieldName string, serial bool, rank, padDigits int) string {
	if serial {
		return dir + "/" + fieldName
	}
	return dir + "/" + fieldName + "." + ZeroPad(rank, padDigits)
}

// RootFileName returns the path of a cycle's root document.
func RootFileName(prefix, name string, cycle, padDigits int) string {
	return prefix + name + rootfile.CycleSeparator + ZeroPad(cycle, padDigits) + "." + rootfile.Extension
}
