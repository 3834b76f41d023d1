package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/filelock"
	"github.com/antopolskiy/kanban-layout/internal/layout"
)

const (
	fileMode     = 0o600
	lockFileName = ".kanban-layout.lock"
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("no kanban-layout.yml found (run 'kanban-layout config init' to create one)")
	ErrInvalid  = errors.New("invalid config")
)

// Config represents the layout engine configuration.
type Config struct {
	Version  int                `yaml:"version"`
	Width    layout.WidthConfig `yaml:"width"`
	Viewport ViewportConfig     `yaml:"viewport"`
	Debounce string             `yaml:"debounce,omitempty"`
	TUI      TUIConfig          `yaml:"tui"`
	Server   ServerConfig       `yaml:"server"`

	// path is the absolute path of the file this config came from (not serialized).
	path string `yaml:"-"`
}

// ViewportConfig holds the classifier inputs and the viewport used when a
// command is not given one.
type ViewportConfig struct {
	Width          int  `yaml:"width"`
	MinColumnWidth int  `yaml:"min_column_width"`
	Gap            int  `yaml:"gap"`
	Padding        int  `yaml:"padding"`
	Mobile         bool `yaml:"mobile,omitempty"`
	Landscape      bool `yaml:"landscape,omitempty"`
}

// TUIConfig holds terminal preview settings.
type TUIConfig struct {
	// CellWidth is the number of pixels one terminal cell stands for.
	CellWidth int `yaml:"cell_width"`
}

// ServerConfig holds HTTP service settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// NewDefault creates a Config with default values.
func NewDefault() *Config {
	return &Config{
		Version: CurrentVersion,
		Width:   layout.DefaultWidthConfig(),
		Viewport: ViewportConfig{
			Width:          DefaultViewportWidth,
			MinColumnWidth: DefaultMinColumnWidth,
			Gap:            DefaultGap,
			Padding:        DefaultPadding,
		},
		Debounce: DefaultDebounce,
		TUI:      TUIConfig{CellWidth: DefaultCellWidth},
		Server:   ServerConfig{Addr: DefaultAddr},
	}
}

// Path returns the absolute path of the config file, or "" for an unsaved config.
func (c *Config) Path() string {
	return c.path
}

// SetPath sets the file the config is saved to.
func (c *Config) SetPath(path string) {
	c.path = path
}

// Validate checks the config for errors.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("%w: unsupported version %d (expected %d)", ErrInvalid, c.Version, CurrentVersion)
	}
	if err := c.Width.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Viewport.Width < 0 {
		return fmt.Errorf("%w: viewport.width must be >= 0", ErrInvalid)
	}
	if c.Viewport.MinColumnWidth < 1 {
		return fmt.Errorf("%w: viewport.min_column_width must be >= 1", ErrInvalid)
	}
	if c.Viewport.Gap < 0 {
		return fmt.Errorf("%w: viewport.gap must be >= 0", ErrInvalid)
	}
	if c.Viewport.Padding < 0 {
		return fmt.Errorf("%w: viewport.padding must be >= 0", ErrInvalid)
	}
	if c.Debounce != "" {
		d, err := time.ParseDuration(c.Debounce)
		if err != nil {
			return fmt.Errorf("%w: invalid debounce %q: %w", ErrInvalid, c.Debounce, err)
		}
		if d < 0 {
			return fmt.Errorf("%w: debounce must be >= 0", ErrInvalid)
		}
	}
	if c.TUI.CellWidth < 1 {
		return fmt.Errorf("%w: tui.cell_width must be >= 1", ErrInvalid)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	}
	return nil
}

// LayoutOptions returns the engine options described by the config.
func (c *Config) LayoutOptions() layout.LayoutOptions {
	return layout.LayoutOptions{
		Width:          c.Width,
		MinColumnWidth: c.Viewport.MinColumnWidth,
		Gap:            c.Viewport.Gap,
		Padding:        c.Viewport.Padding,
	}
}

// DefaultViewport returns the configured fallback viewport.
func (c *Config) DefaultViewport() layout.Viewport {
	return layout.Viewport{
		Width:     c.Viewport.Width,
		Mobile:    c.Viewport.Mobile,
		Landscape: c.Viewport.Landscape,
	}
}

// DebounceDuration parses the debounce string. Returns the default delay if
// the field is empty or unparseable.
func (c *Config) DebounceDuration() time.Duration {
	fallback, _ := time.ParseDuration(DefaultDebounce)
	if c.Debounce == "" {
		return fallback
	}
	d, err := time.ParseDuration(c.Debounce)
	if err != nil {
		return fallback
	}
	return d
}

// Save writes the config to its file.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("config has no path")
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(c.path, data, fileMode)
}

// Load reads, migrates and validates a config file.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	data, err := os.ReadFile(absPath) //nolint:gosec // config path from trusted source
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Fields missing from the file keep their defaults.
	cfg := NewDefault()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, clierr.Newf(clierr.InvalidConfig, "parsing config: %v", err).
			WithDetails(map[string]any{"path": absPath})
	}
	cfg.path = absPath

	// Migrate old config versions forward before validating.
	if err := migrate(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// FindPath walks upward from startDir looking for ConfigFileName and returns
// its absolute path.
func FindPath(startDir string) (string, error) {
	absStart, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	dir := absStart
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", clierr.New(clierr.ConfigNotFound, ErrNotFound.Error())
		}
		dir = parent
	}
}

// Init writes a default config to dir. It fails if one already exists.
func Init(dir string) (*Config, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	path := filepath.Join(absDir, ConfigFileName)

	// Serialize concurrent inits so only one of them creates the file.
	lockPath := filepath.Join(absDir, lockFileName)
	unlock, err := filelock.Lock(lockPath)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = unlock()
		_ = os.Remove(lockPath)
	}()

	if _, err := os.Stat(path); err == nil {
		return nil, clierr.Newf(clierr.ConfigExists, "config already exists: %s", path).
			WithDetails(map[string]any{"path": path})
	}

	cfg := NewDefault()
	cfg.path = path
	if err := cfg.Save(); err != nil {
		return nil, fmt.Errorf("writing config: %w", err)
	}
	return cfg, nil
}
