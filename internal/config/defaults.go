// Package config handles kanban-layout configuration.
package config

// Default values for a new config.
var (
	DefaultViewportWidth  = 1280
	DefaultMinColumnWidth = 280
	DefaultGap            = 24
	DefaultPadding        = 48

	DefaultDebounce  = "150ms"
	DefaultCellWidth = 8
	DefaultAddr      = "127.0.0.1:8787"
)

const (
	// ConfigFileName is the name of the config file looked up from the
	// working directory upward.
	ConfigFileName = "kanban-layout.yml"

	// CurrentVersion is the current config schema version.
	CurrentVersion = 2
)
