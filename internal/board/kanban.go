package board

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/layout"
)

// Layout of a kanban-md board directory.
const (
	KanbanConfigFile = "config.yml"
	KanbanDefaultDir = "kanban"
	defaultTasksDir  = "tasks"
)

var (
	frontmatterOpen  = []byte("---\n")
	frontmatterClose = []byte("\n---\n")

	errNoFrontmatter = errors.New("missing frontmatter")
)

// kanbanConfig is the subset of a kanban-md config.yml the loader reads.
type kanbanConfig struct {
	Board struct {
		Name string `yaml:"name"`
	} `yaml:"board"`
	TasksDir string   `yaml:"tasks_dir"`
	Statuses []string `yaml:"statuses"`
}

// taskFrontmatter is the subset of a task file's frontmatter the loader reads.
type taskFrontmatter struct {
	Title    string   `yaml:"title"`
	Status   string   `yaml:"status"`
	Assignee string   `yaml:"assignee"`
	Tags     []string `yaml:"tags"`
	Due      string   `yaml:"due"`
}

// IsKanbanDir reports whether dir (or its kanban/ subdirectory) holds a
// kanban-md board and returns the board directory.
func IsKanbanDir(dir string) (string, bool) {
	for _, candidate := range []string{dir, filepath.Join(dir, KanbanDefaultDir)} {
		if _, err := os.Stat(filepath.Join(candidate, KanbanConfigFile)); err == nil {
			return candidate, true
		}
	}
	return "", false
}

// loadKanbanDir builds one column per configured status, in order, holding
// the tasks in that status. Unreadable task files are skipped and reported
// as warnings.
func loadKanbanDir(dir string) (*Snapshot, error) {
	boardDir, ok := IsKanbanDir(dir)
	if !ok {
		return nil, clierr.Newf(clierr.SnapshotNotFound, "no %s found in %s", KanbanConfigFile, dir).
			WithDetails(map[string]any{"path": dir})
	}

	cfgPath := filepath.Join(boardDir, KanbanConfigFile)
	data, err := os.ReadFile(cfgPath) //nolint:gosec // board path from user input
	if err != nil {
		return nil, fmt.Errorf("reading board config: %w", err)
	}
	var cfg kanbanConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, clierr.Newf(clierr.InvalidSnapshot, "parsing board config: %v", err).
			WithDetails(map[string]any{"path": cfgPath})
	}
	if len(cfg.Statuses) == 0 {
		return nil, clierr.New(clierr.InvalidSnapshot, "board config has no statuses").
			WithDetails(map[string]any{"path": cfgPath})
	}
	if cfg.TasksDir == "" {
		cfg.TasksDir = defaultTasksDir
	}
	tasksDir := filepath.Join(boardDir, cfg.TasksDir)

	s := &Snapshot{
		Name:    cfg.Board.Name,
		Columns: make([]layout.Column, len(cfg.Statuses)),
		source:  boardDir,
		watch:   []string{boardDir},
	}
	if s.Name == "" {
		s.Name = filepath.Base(boardDir)
	}
	index := make(map[string]int, len(cfg.Statuses))
	for i, status := range cfg.Statuses {
		s.Columns[i] = layout.Column{ID: status, Title: status}
		index[status] = i
	}

	if _, err := os.Stat(tasksDir); err == nil {
		s.watch = append(s.watch, tasksDir)
	}
	tasks, warnings, err := readTasks(tasksDir)
	if err != nil {
		return nil, err
	}
	s.Warnings = warnings

	for _, t := range tasks {
		i, ok := index[t.status]
		if !ok {
			continue
		}
		s.Columns[i].Cards = append(s.Columns[i].Cards, t.card)
	}
	return s, nil
}

type taskCard struct {
	status string
	card   layout.Card
}

// readTasks reads every .md file in tasksDir in filename order. A missing
// directory is an empty board.
func readTasks(tasksDir string) ([]taskCard, []ReadWarning, error) {
	entries, err := os.ReadDir(tasksDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("reading tasks directory: %w", err)
	}

	var tasks []taskCard
	var warnings []ReadWarning
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(tasksDir, entry.Name())
		t, err := readTask(path)
		if err != nil {
			warnings = append(warnings, ReadWarning{File: entry.Name(), Err: err.Error()})
			continue
		}
		tasks = append(tasks, t)
	}
	return tasks, warnings, nil
}

func readTask(path string) (taskCard, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path from tasks directory listing
	if err != nil {
		return taskCard{}, err
	}
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))

	front, body, err := splitFrontmatter(data)
	if err != nil {
		return taskCard{}, err
	}
	var fm taskFrontmatter
	if err := yaml.Unmarshal(front, &fm); err != nil {
		return taskCard{}, fmt.Errorf("parsing frontmatter: %w", err)
	}

	return taskCard{
		status: fm.Status,
		card: layout.Card{
			Title:       fm.Title,
			Description: string(bytes.TrimSpace(body)),
			Assignee:    fm.Assignee,
			Tags:        fm.Tags,
			Due:         fm.Due,
		},
	}, nil
}

// splitFrontmatter separates the YAML block between the leading "---" lines
// from the Markdown body.
func splitFrontmatter(data []byte) (front, body []byte, err error) {
	if !bytes.HasPrefix(data, frontmatterOpen) {
		return nil, nil, errNoFrontmatter
	}
	rest := data[len(frontmatterOpen):]
	// An empty frontmatter block closes immediately.
	if bytes.HasPrefix(rest, frontmatterOpen) {
		return nil, rest[len(frontmatterOpen):], nil
	}
	end := bytes.Index(rest, frontmatterClose)
	if end < 0 {
		if bytes.HasSuffix(rest, []byte("\n---")) {
			return rest[:len(rest)-len("\n---")], nil, nil
		}
		return nil, nil, fmt.Errorf("%w: unterminated block", errNoFrontmatter)
	}
	return rest[:end], rest[end+len(frontmatterClose):], nil
}
