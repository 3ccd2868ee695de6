package config

const (
	// defaultOutputRoot is where per-run extraction directories are created
	// when no explicit root is configured.
	defaultOutputRoot = "extracted"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Output: OutputConfig{
			Root: defaultOutputRoot,
		},
		History: HistoryConfig{
			Enabled: true,
		},
	}
}
