package datacollection

import (
	"fmt"

	"github.com/randalmurphal/datacollection/pkg/datacollection/config"
)

// Configuration keys read by OptionsFromConfig.
const (
	KeyPrefixPath  = "prefix_path"
	KeyPrecision   = "precision"
	KeyPadDigits   = "pad_digits"
	KeyCycle       = "cycle"
	KeyMaxLODs     = "max_lods"
	KeyCompression = "compression"
	KeyOwnData     = "own_data"
)

// SettingKeys lists every key OptionsFromConfig understands.
var SettingKeys = []string{
	KeyPrefixPath, KeyPrecision, KeyPadDigits, KeyCycle,
	KeyMaxLODs, KeyCompression, KeyOwnData,
}

// LoadSettings reads collection options from a YAML or JSON file. A
// non-empty section selects a nested table such as "collections.heat".
// Keys outside SettingKeys are rejected.
func LoadSettings(path, section string) ([]Option, error) {
	cfg, err := config.FromFile(path, config.WithSection(section), config.WithKnownKeys(SettingKeys...))
	if err != nil {
		return nil, err
	}
	return OptionsFromConfig(cfg)
}

// OptionsFromConfig maps settings to collection options. Only keys present
// in cfg produce options, so defaults stay in force for the rest. An
// unknown compression name is an error.
func OptionsFromConfig(cfg config.Config) ([]Option, error) {
	var opts []Option

	if cfg.Has(KeyPrefixPath) {
		opts = append(opts, WithPrefixPath(cfg.String(KeyPrefixPath, "")))
	}
	if cfg.Has(KeyPrecision) {
		opts = append(opts, WithPrecision(cfg.Int(KeyPrecision, DefaultPrecision)))
	}
	if cfg.Has(KeyPadDigits) {
		opts = append(opts, WithPadDigits(cfg.Int(KeyPadDigits, DefaultPadDigits)))
	}
	if cfg.Has(KeyCycle) {
		opts = append(opts, WithCycle(cfg.Int(KeyCycle, NoCycle)))
	}
	if cfg.Has(KeyMaxLODs) {
		opts = append(opts, WithMaxLevelsOfDetail(cfg.Int(KeyMaxLODs, DefaultMaxLevelsOfDetail)))
	}
	if cfg.Has(KeyOwnData) {
		opts = append(opts, WithOwnData(cfg.Bool(KeyOwnData, false)))
	}
	if cfg.Has(KeyCompression) {
		c := Compression(cfg.String(KeyCompression, ""))
		if c != CompressionNone && c != CompressionLZ4 {
			return nil, fmt.Errorf("%s: unknown compression %q", KeyCompression, cfg.Raw()[KeyCompression])
		}
		opts = append(opts, WithCompression(c))
	}

	return opts, nil
}
