// Package board loads read-only board snapshots for the layout engine.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/layout"
)

// columnNamespace seeds the name-based UUIDs given to columns without an ID.
var columnNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/antopolskiy/kanban-layout/column"))

// Snapshot is an immutable view of a board's columns.
type Snapshot struct {
	Name    string          `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	Columns []layout.Column `json:"columns" yaml:"columns" toml:"columns"`

	// Warnings lists task files skipped while reading a kanban-md directory.
	Warnings []ReadWarning `json:"warnings,omitempty" yaml:"-" toml:"-"`

	source string
	watch  []string
}

// ReadWarning describes a file that could not be read and was skipped.
type ReadWarning struct {
	File string `json:"file"`
	Err  string `json:"error"`
}

// New builds a snapshot from in-memory columns, assigning missing IDs and
// rejecting duplicates.
func New(name string, cols []layout.Column) (*Snapshot, error) {
	s := &Snapshot{Name: name, Columns: cols}
	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

// Source returns the absolute path the snapshot was loaded from.
func (s *Snapshot) Source() string {
	return s.source
}

// WatchPaths returns the files and directories whose changes invalidate the
// snapshot.
func (s *Snapshot) WatchPaths() []string {
	return append([]string(nil), s.watch...)
}

// ColumnIDs returns the column IDs in board order.
func (s *Snapshot) ColumnIDs() []string {
	ids := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		ids[i] = c.ID
	}
	return ids
}

// Load reads a snapshot from a YAML, TOML or JSON file, or from a kanban-md
// board directory.
func Load(path string) (*Snapshot, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, clierr.Newf(clierr.SnapshotNotFound, "snapshot not found: %s", path).
				WithDetails(map[string]any{"path": absPath})
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var s *Snapshot
	if info.IsDir() {
		s, err = loadKanbanDir(absPath)
	} else {
		s, err = loadFile(absPath)
	}
	if err != nil {
		return nil, err
	}

	if err := s.normalize(); err != nil {
		return nil, err
	}
	return s, nil
}

func loadFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path) //nolint:gosec // snapshot path from user input
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	s, err := Decode(data, filepath.Ext(path))
	if err != nil {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			cliErr.Details = map[string]any{"path": path}
		}
		return nil, err
	}

	if s.Name == "" {
		s.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	s.source = path
	s.watch = []string{path}
	return s, nil
}

// Decode parses snapshot data in the format named by ext (".yml", ".yaml",
// ".toml" or ".json"). IDs are not assigned; use New or Load for that.
func Decode(data []byte, ext string) (*Snapshot, error) {
	var s Snapshot
	var err error
	switch strings.ToLower(ext) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &s)
	case ".toml":
		err = toml.Unmarshal(data, &s)
	case ".json":
		err = json.Unmarshal(data, &s)
	default:
		return nil, clierr.Newf(clierr.InvalidSnapshot, "unsupported snapshot format %q (use .yml, .toml or .json)", ext)
	}
	if err != nil {
		return nil, clierr.Newf(clierr.InvalidSnapshot, "parsing snapshot: %v", err)
	}
	return &s, nil
}

// normalize gives every column an ID and rejects duplicate IDs.
func (s *Snapshot) normalize() error {
	seen := make(map[string]int, len(s.Columns))
	for i := range s.Columns {
		col := &s.Columns[i]
		if col.ID == "" {
			col.ID = ColumnID(i, col.Title)
		}
		if prev, ok := seen[col.ID]; ok {
			return clierr.Newf(clierr.DuplicateColumn, "duplicate column id %q", col.ID).
				WithDetails(map[string]any{
					"id":        col.ID,
					"positions": []int{prev, i},
				})
		}
		seen[col.ID] = i
	}
	return nil
}

// ColumnID returns the deterministic ID of an unnamed column at the given
// position.
func ColumnID(index int, title string) string {
	return uuid.NewSHA1(columnNamespace, fmt.Appendf(nil, "%d:%s", index, title)).String()
}
