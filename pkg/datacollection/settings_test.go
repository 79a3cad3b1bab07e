package datacollection

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/randalmurphal/datacollection/pkg/datacollection/config"
)

func TestOptionsFromConfig(t *testing.T) {
	cfg, err := config.FromYAML([]byte(`
prefix_path: runs
precision: 10
pad_digits: 4
cycle: 2
max_lods: 8
own_data: true
compression: lz4
`))
	require.NoError(t, err)

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	dc := NewVisIt("run", opts...)

	assert.Equal(t, "runs/", dc.PrefixPath())
	assert.Equal(t, 10, dc.Precision())
	assert.Equal(t, 4, dc.PadDigits())
	assert.Equal(t, 2, dc.Cycle())
	assert.Equal(t, 8, dc.MaxLevelsOfDetail())
	assert.True(t, dc.OwnsData())
	assert.Equal(t, CompressionLZ4, dc.compression)
}

func TestOptionsFromConfig_MissingKeysKeepDefaults(t *testing.T) {
	opts, err := OptionsFromConfig(config.New(nil))
	require.NoError(t, err)
	assert.Empty(t, opts)

	dc := New("run", opts...)
	assert.Equal(t, DefaultPrecision, dc.Precision())
	assert.Equal(t, NoCycle, dc.Cycle())
	assert.Equal(t, CompressionNone, dc.compression)
}

func TestOptionsFromConfig_JSONNumbers(t *testing.T) {
	cfg, err := config.FromJSON([]byte(`{"pad_digits": 3, "cycle": 0}`))
	require.NoError(t, err)

	opts, err := OptionsFromConfig(cfg)
	require.NoError(t, err)
	dc := New("run", opts...)
	assert.Equal(t, 3, dc.PadDigits())
	assert.Equal(t, 0, dc.Cycle())
}

func TestOptionsFromConfig_UnknownCompression(t *testing.T) {
	_, err := OptionsFromConfig(config.New(map[string]any{"compression": "zstd"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown compression "zstd"`)
}

func TestLoadSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
collections:
  heat:
    prefix_path: runs
    pad_digits: 4
    compression: lz4
  wave:
    pad_digits: 8
`), 0o644))

	opts, err := LoadSettings(path, "collections.heat")
	require.NoError(t, err)
	dc := NewVisIt("heat", opts...)
	assert.Equal(t, "runs/", dc.PrefixPath())
	assert.Equal(t, 4, dc.PadDigits())
	assert.Equal(t, CompressionLZ4, dc.compression)

	_, err = LoadSettings(path, "collections.missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `section "collections.missing" not found`)
}

func TestLoadSettings_RejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "checkpoint.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"pad_digit": 4, "cycle": 1}`), 0o644))

	_, err := LoadSettings(path, "")
	assert.ErrorIs(t, err, config.ErrUnknownKey)
	assert.Contains(t, err.Error(), "pad_digit")
}
