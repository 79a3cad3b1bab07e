package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownKey is returned when a settings table holds a key outside the
// set passed to WithKnownKeys.
var ErrUnknownKey = errors.New("unknown setting")

// LoadOption configures how a settings document is turned into a Config.
type LoadOption func(*loadOptions)

type loadOptions struct {
	section []string
	known   map[string]bool
}

// WithSection selects a nested table, such as "collections.heat", instead
// of the document root. A missing section is an error.
func WithSection(path string) LoadOption {
	return func(o *loadOptions) {
		if path != "" {
			o.section = strings.Split(path, ".")
		}
	}
}

// WithKnownKeys rejects settings whose top-level keys are not in keys.
// Misspelled keys would otherwise fall back to defaults silently.
func WithKnownKeys(keys ...string) LoadOption {
	return func(o *loadOptions) {
		if o.known == nil {
			o.known = make(map[string]bool, len(keys))
		}
		for _, k := range keys {
			o.known[k] = true
		}
	}
}

// FromFile loads settings from path. The format follows the extension:
// .yaml, .yml, or .json.
func FromFile(path string, opts ...LoadOption) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FromYAML(data, opts...)
	case ".json":
		return FromJSON(data, opts...)
	default:
		return Config{}, fmt.Errorf("unsupported config file extension: %q", ext)
	}
}

// FromYAML parses YAML settings. An empty document gives an empty Config.
func FromYAML(data []byte, opts ...LoadOption) (Config, error) {
	var m map[string]any
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse yaml: %w", err)
	}
	return build(m, opts)
}

// FromJSON parses JSON settings.
func FromJSON(data []byte, opts ...LoadOption) (Config, error) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return Config{}, fmt.Errorf("parse json: %w", err)
	}
	return build(m, opts)
}

func build(m map[string]any, opts []LoadOption) (Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := New(m)
	for i, name := range o.section {
		if _, ok := cfg.data[name].(map[string]any); !ok {
			return Config{}, fmt.Errorf("section %q not found", strings.Join(o.section[:i+1], "."))
		}
		cfg = cfg.Section(name)
	}

	if o.known != nil {
		var unknown []string
		for k := range cfg.data {
			if !o.known[k] {
				unknown = append(unknown, k)
			}
		}
		if len(unknown) > 0 {
			sort.Strings(unknown)
			return Config{}, fmt.Errorf("%w: %s", ErrUnknownKey, strings.Join(unknown, ", "))
		}
	}
	return cfg, nil
}
