/*
Package config reads collection settings from YAML or JSON.

A Config wraps the decoded map and returns typed values with a default for
missing or mistyped keys, so a half-filled settings file never fails a run:

	cfg, err := config.FromFile("checkpoint.yaml")
	if err != nil {
	    return err
	}
	out := cfg.Section("output")
	prefix := out.String("prefix_path", "")  // "runs/"
	digits := out.Int("pad_digits", 6)       // 6 if absent

A settings file that holds several collections can be narrowed to one table
at load time, and keys outside a known set rejected:

	cfg, err := config.FromFile("settings.yaml",
	    config.WithSection("collections.heat"),
	    config.WithKnownKeys("prefix_path", "pad_digits"))

Nested objects are reached with Section. Numbers decoded from JSON arrive as
float64 and are converted to int only when they have no fractional part.

Config is safe for concurrent reads. It never modifies the map it wraps.
*/
package config
