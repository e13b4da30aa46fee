// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// LogConfig selects the log level and output format.
type LogConfig struct {
	// Level is one of error, warn, info, debug (default info).
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format is one of text, logfmt, json (default text).
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// ToolsConfig locates the pktools installation.
type ToolsConfig struct {
	// PktoolsPath is the directory holding the pktools executables. When
	// empty the executables are looked up on PATH.
	PktoolsPath string `json:"pktools_path" yaml:"pktools_path" mapstructure:"pktools_path"`
}

// HistoryConfig controls the processing history log.
type HistoryConfig struct {
	// DB is the path of the SQLite history database. Empty disables history.
	DB string `json:"db" yaml:"db" mapstructure:"db"`

	// Limit is the default number of entries listed by `history` (default 20).
	Limit int `json:"limit" yaml:"limit" mapstructure:"limit"`
}

// MetricsConfig controls the Prometheus textfile export.
type MetricsConfig struct {
	// File is the path of the textfile written after each command. Empty
	// disables export.
	File string `json:"file" yaml:"file" mapstructure:"file"`
}

// Config groups all settings read from the config file, flags and
// PKPROCESSING_* environment variables.
type Config struct {
	Tools   ToolsConfig   `json:"tools" yaml:"tools" mapstructure:",squash"`
	Log     LogConfig     `json:"log" yaml:"log" mapstructure:"log"`
	History HistoryConfig `json:"history" yaml:"history" mapstructure:"history"`
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`
}
