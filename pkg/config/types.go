package config

import "strconv"

// Config represents the persistent spool configuration stored as config.toml
// in the .spool/ directory. The TOML layout uses sections for logical grouping.
type Config struct {
	Version int           `toml:"version"`
	Output  OutputConfig  `toml:"output"`
	History HistoryConfig `toml:"history"`
}

// OutputConfig holds settings for where extracted artifacts are written.
type OutputConfig struct {
	// Root is the directory under which per-run output directories
	// (<actionKey>_<chatId>/) are created.
	Root string `toml:"root,omitempty"`
}

// HistoryConfig holds settings for the extraction run history index.
type HistoryConfig struct {
	// SQLitePath overrides the history database location. When empty the
	// database lives at <dotdir>/history.db.
	SQLitePath string `toml:"sqlite_path,omitempty"`

	// Enabled controls whether completed runs are recorded at all.
	Enabled bool `toml:"enabled"`
}

// configKeyInfo maps a user-facing dotted key name to a getter and setter on *Config.
type configKeyInfo struct {
	get func(c *Config) string
	set func(c *Config, v string) error
}

// configKeys is the authoritative map of all supported config keys.
// Keys use dotted notation matching the TOML section structure.
var configKeys = map[string]configKeyInfo{
	"output.root": {
		get: func(c *Config) string { return c.Output.Root },
		set: func(c *Config, v string) error { c.Output.Root = v; return nil },
	},
	"history.sqlite_path": {
		get: func(c *Config) string { return c.History.SQLitePath },
		set: func(c *Config, v string) error { c.History.SQLitePath = v; return nil },
	},
	"history.enabled": {
		get: func(c *Config) string { return strconv.FormatBool(c.History.Enabled) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return err
			}
			c.History.Enabled = b
			return nil
		},
	},
}
