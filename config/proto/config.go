// Configuration objects. These are plain structs serialized to YAML
// and shared by every package that needs to see the config.
package proto

type LoggingConfig struct {
	// If empty we only log to stderr.
	OutputDirectory          string `yaml:"output_directory,omitempty"`
	SeparateLogsPerComponent bool   `yaml:"separate_logs_per_component,omitempty"`

	// Both in seconds.
	RotationTime uint64 `yaml:"rotation_time,omitempty"`
	MaxAge       uint64 `yaml:"max_age,omitempty"`

	Debug bool `yaml:"debug,omitempty"`
}

type ChangeLogConfig struct {
	// Directory containing the rotated change logs.
	Directory string `yaml:"directory,omitempty"`

	// Name pattern of the rotated files within Directory.
	Glob string `yaml:"glob,omitempty"`

	// Name of the accessor used to list and open the files.
	Accessor string `yaml:"accessor,omitempty"`

	// A Go time layout for the header timestamps. If empty we guess
	// the format.
	TimestampLayout string `yaml:"timestamp_layout,omitempty"`

	// Location header timestamps are interpreted in.
	Timezone string `yaml:"timezone,omitempty"`

	// Longest line we accept.
	BufferSize int `yaml:"buffer_size,omitempty"`
}

type Version struct {
	Name      string `yaml:"name,omitempty"`
	Version   string `yaml:"version,omitempty"`
	Commit    string `yaml:"commit,omitempty"`
	BuildTime string `yaml:"build_time,omitempty"`
}

type Config struct {
	Version   *Version         `yaml:"version,omitempty"`
	Logging   *LoggingConfig   `yaml:"Logging,omitempty"`
	ChangeLog *ChangeLogConfig `yaml:"ChangeLog,omitempty"`

	// Set by the loader, not serialized.
	Verbose bool `yaml:"-"`
}
