package config

import "fmt"

// migrations[v] upgrades a version v config to v+1.
var migrations = map[int]func(*Config){
	1: addRuntimeSections,
}

// migrate brings cfg up to CurrentVersion in place.
func migrate(cfg *Config) error {
	switch {
	case cfg.Version > CurrentVersion:
		return fmt.Errorf("%w: config version %d is newer than this kanban-layout supports (%d)",
			ErrInvalid, cfg.Version, CurrentVersion)
	case cfg.Version < 1:
		return fmt.Errorf("%w: config version %d is invalid", ErrInvalid, cfg.Version)
	}

	for v := cfg.Version; v < CurrentVersion; v++ {
		step, ok := migrations[v]
		if !ok {
			return fmt.Errorf("%w: no migration from version %d", ErrInvalid, v)
		}
		step(cfg)
		cfg.Version = v + 1
	}
	return nil
}

// addRuntimeSections fills the debounce delay and the tui and server
// sections that version 1 files lack.
func addRuntimeSections(cfg *Config) {
	if cfg.Debounce == "" {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.TUI.CellWidth == 0 {
		cfg.TUI.CellWidth = DefaultCellWidth
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}
}
