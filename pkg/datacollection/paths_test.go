package datacollection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestZeroPad(t *testing.T) {
	tests := []struct {
		v, digits int
		want      string
	}{
		{3, 6, "000003"},
		{0, 6, "000000"},
		{42, 2, "42"},
		{1234, 2, "1234"},
		{7, 1, "7"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ZeroPad(tt.v, tt.digits))
	}
}

func TestNormalizePrefix(t *testing.T) {
	assert.Equal(t, "", NormalizePrefix(""))
	assert.Equal(t, "out/", NormalizePrefix("out"))
	assert.Equal(t, "out/", NormalizePrefix("out/"))
	assert.Equal(t, "/tmp/a/", NormalizePrefix("/tmp/a"))
}

func TestPaths(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		cycle    int
		serial   bool
		rank     int
		wantMesh string
		wantP    string
	}{
		{"serial cycle", "", 3, true, 0, "run_000003/mesh", "run_000003/pressure"},
		{"serial no cycle", "", NoCycle, true, 0, "run/mesh", "run/pressure"},
		{"distributed rank 2", "", 3, false, 2, "run_000003/mesh.000002", "run_000003/pressure.000002"},
		{"with prefix", "out/", 0, false, 0, "out/run_000000/mesh.000000", "out/run_000000/pressure.000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := CycleDir(tt.prefix, "run", tt.cycle, DefaultPadDigits)
			assert.Equal(t, tt.wantMesh, MeshFileName(dir, tt.serial, tt.rank, DefaultPadDigits))
			assert.Equal(t, tt.wantP, FieldFileName(dir, "pressure", tt.serial, tt.rank, DefaultPadDigits))
		})
	}
}

func TestPaths_Deterministic(t *testing.T) {
	for _, cycle := range []int{NoCycle, 0, 17} {
		a := FieldFileName(CycleDir("p/", "run", cycle, 4), "u", false, 3, 4)
		b := FieldFileName(CycleDir("p/", "run", cycle, 4), "u", false, 3, 4)
		assert.Equal(t, a, b)
	}
}

func TestRootFileName(t *testing.T) {
	assert.Equal(t, "run_000003.mfem_root", RootFileName("", "run", 3, DefaultPadDigits))
	assert.Equal(t, "out/run_0012.mfem_root", RootFileName("out/", "run", 12, 4))
}
