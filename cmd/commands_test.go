package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/config"
	"github.com/antopolskiy/kanban-layout/internal/layout"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

const testBoard = `name: Sprint
columns:
  - id: todo
    title: To Do
    cards:
      - title: Write docs
        tags: [docs, writing]
      - title: Fix login
        assignee: alex
        due: "2026-03-15"
  - id: done
    title: Done
`

const testBoardThreeColumns = testBoard + `  - id: later
    title: Later
`

// isolate runs the test in an empty directory without --config, so the
// default config applies.
func isolate(t *testing.T) string {
	t.Helper()
	setConfigFlag(t, "")
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeBoard(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "board.yml")
	writeTestFile(t, path, content)
	return path
}

func viewportCmd(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	addViewportFlags(c)
	c.Flags().Int("columns", 0, "")
	c.Flags().Int("available", 0, "")
	c.Flags().String("addr", "", "")
	for k, v := range flags {
		if err := c.Flags().Set(k, v); err != nil {
			t.Fatalf("setting --%s: %v", k, err)
		}
	}
	c.SetContext(withLogger(context.Background(), log.New(io.Discard)))
	return c
}

// --- analyze ---

func TestRunAnalyze_JSON(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runAnalyze(analyzeCmd, []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}

	var rows []output.MetricsRow
	if err := json.Unmarshal([]byte(got), &rows); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, got)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].ID != "todo" || rows[0].Metrics.CardCount != 2 {
		t.Errorf("todo row = %+v", rows[0])
	}
	if !rows[0].Metrics.HasMultipleTags || !rows[0].Metrics.HasDueDates {
		t.Errorf("todo flags = %+v, want multiple tags and due dates", rows[0].Metrics)
	}
	if rows[1].OptimalWidth != 280 {
		t.Errorf("empty column optimal = %d, want 280", rows[1].OptimalWidth)
	}
}

func TestRunAnalyze_MissingBoard(t *testing.T) {
	dir := isolate(t)
	err := runAnalyze(analyzeCmd, []string{filepath.Join(dir, "missing.yml")})
	wantCode(t, err, clierr.SnapshotNotFound)
}

func TestRunAnalyze_Compact(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, false, false, true)

	r, w := captureStdout(t)
	err := runAnalyze(analyzeCmd, []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 2 {
		t.Fatalf("lines = %d, want 2:\n%s", len(lines), got)
	}
	if !strings.HasPrefix(lines[0], "todo [To Do] cards:2") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "done [Done] cards:0") {
		t.Errorf("line 1 = %q", lines[1])
	}
}

// --- widths ---

func TestDefaultAvailable(t *testing.T) {
	cfg := config.NewDefault()
	tests := []struct {
		name  string
		width int
		want  int
	}{
		{"default viewport", 1280, 1232},
		{"padding only", 48, 0},
		{"narrow viewport", 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg.Viewport.Width = tt.width
			if got := defaultAvailable(cfg); got != tt.want {
				t.Errorf("defaultAvailable = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRunWidths_Overflow(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runWidths(viewportCmd(t, map[string]string{"available": "300"}), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	var report output.WidthReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, got)
	}
	if report.Available != 300 || !report.Overflow {
		t.Errorf("report = %+v, want overflow at 300", report)
	}
	for _, c := range report.Columns {
		if c.Distributed != 280 {
			t.Errorf("%s distributed = %d, want 280", c.ID, c.Distributed)
		}
	}
}

func TestRunWidths_DefaultBudgetFits(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runWidths(viewportCmd(t, nil), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	var report output.WidthReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatal(err)
	}
	if report.Available != 1232 {
		t.Errorf("available = %d, want 1232 (1280 - 48 padding)", report.Available)
	}
	if report.Overflow {
		t.Error("overflow = true, want false")
	}
	for _, c := range report.Columns {
		if c.Distributed != c.Optimal {
			t.Errorf("%s distributed %d != optimal %d", c.ID, c.Distributed, c.Optimal)
		}
	}
}

func TestRunWidths_NegativeAvailableFloorsColumns(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runWidths(viewportCmd(t, map[string]string{"available": "-1"}), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	var report output.WidthReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, got)
	}
	if report.Available != -1 || !report.Overflow {
		t.Errorf("report = %+v, want overflow at -1", report)
	}
	for _, c := range report.Columns {
		if c.Distributed != 280 {
			t.Errorf("%s distributed = %d, want the 280 minimum", c.ID, c.Distributed)
		}
	}
}

// --- layout ---

func TestViewportFromFlags(t *testing.T) {
	cfg := config.NewDefault()

	vp := viewportFromFlags(viewportCmd(t, nil), cfg)
	if vp != (layout.Viewport{Width: config.DefaultViewportWidth}) {
		t.Errorf("default viewport = %+v", vp)
	}

	vp = viewportFromFlags(viewportCmd(t, map[string]string{
		"viewport": "500", "mobile": "true", "landscape": "true",
	}), cfg)
	if vp != (layout.Viewport{Width: 500, Mobile: true, Landscape: true}) {
		t.Errorf("flag viewport = %+v", vp)
	}

	vp = viewportFromFlags(viewportCmd(t, map[string]string{"viewport": "-10"}), cfg)
	if vp.Width != -10 {
		t.Errorf("negative viewport = %d, want -10 passed through", vp.Width)
	}
}

func TestViewportFromFlags_ConfigHints(t *testing.T) {
	cfg := config.NewDefault()
	cfg.Viewport.Landscape = true

	vp := viewportFromFlags(viewportCmd(t, nil), cfg)
	if !vp.Landscape {
		t.Error("configured landscape hint lost")
	}

	vp = viewportFromFlags(viewportCmd(t, map[string]string{"landscape": "false"}), cfg)
	if vp.Landscape {
		t.Error("--landscape=false did not override config")
	}
}

func TestRunLayout_MobileScrollCompact(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, false, false, true)

	r, w := captureStdout(t)
	err := runLayout(viewportCmd(t, map[string]string{"viewport": "767"}), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3:\n%s", len(lines), got)
	}
	want := "mobile-scroll viewport:767 per_row:1 row_width:719 column_width:719"
	if lines[0] != want {
		t.Errorf("summary = %q, want %q", lines[0], want)
	}
	if !strings.HasPrefix(lines[1], "todo [To Do] 719 ") {
		t.Errorf("todo line = %q", lines[1])
	}
}

func TestRunLayout_DesktopJSON(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runLayout(viewportCmd(t, map[string]string{"viewport": "1600"}), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	var report output.LayoutReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, got)
	}
	if report.Board != "Sprint" || report.Layout.Mode != layout.ModeDesktop {
		t.Errorf("report = %+v", report)
	}
	if len(report.Columns) != 2 {
		t.Fatalf("columns = %d, want 2", len(report.Columns))
	}
	sum := report.Columns[0].Dimensions.CalculatedWidth + 24 + report.Columns[1].Dimensions.CalculatedWidth
	if report.RowWidth != sum {
		t.Errorf("total_width = %d, want %d", report.RowWidth, sum)
	}
}

func TestRunLayout_Table(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, false, true, false)

	r, w := captureStdout(t)
	err := runLayout(viewportCmd(t, map[string]string{"viewport": "1600"}), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Sprint", "Layout:", "desktop", "COLUMN", "To Do", "Done"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestRunLayout_UsesConfigFile(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	cfg, err := config.Init(dir)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Viewport.Width = 900
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	setFlags(t, false, false, true)

	r, w := captureStdout(t)
	err = runLayout(viewportCmd(t, nil), []string{path})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "tablet-wrap viewport:900 ") {
		t.Errorf("output = %q, want tablet-wrap at the configured 900px", got)
	}
}

// --- classify ---

func TestRunClassify_Compact(t *testing.T) {
	isolate(t)
	setFlags(t, false, false, true)

	r, w := captureStdout(t)
	err := runClassify(viewportCmd(t, map[string]string{"columns": "4", "viewport": "960"}), nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if want := "tablet-wrap per_row:2 column_width:444\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

func TestRunClassify_JSON(t *testing.T) {
	isolate(t)
	setFlags(t, true, false, false)

	r, w := captureStdout(t)
	err := runClassify(viewportCmd(t, map[string]string{"columns": "3", "viewport": "767"}), nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}

	var report output.ClassifyReport
	if err := json.Unmarshal([]byte(got), &report); err != nil {
		t.Fatal(err)
	}
	if report.Columns != 3 || report.Mode != layout.ModeMobileScroll || report.ColumnWidth != 719 {
		t.Errorf("report = %+v", report)
	}
}

func TestRunClassify_NegativeColumns(t *testing.T) {
	isolate(t)
	err := runClassify(viewportCmd(t, map[string]string{"columns": "-1"}), nil)
	wantCode(t, err, clierr.InvalidInput)
}

// --- config ---

func TestRunConfigInitAndShow(t *testing.T) {
	dir := isolate(t)
	setFlags(t, false, true, false)

	r, w := captureStdout(t)
	err := runConfigInit(configInitCmd, []string{dir})
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runConfigInit: %v", err)
	}
	path := filepath.Join(dir, config.ConfigFileName)
	if got != "Created "+path+"\n" {
		t.Errorf("output = %q", got)
	}

	setFlags(t, true, false, false)
	r, w = captureStdout(t)
	err = runConfigShow(configShowCmd, nil)
	got = drainPipe(t, r, w)
	if err != nil {
		t.Fatalf("runConfigShow: %v", err)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(got), &m); err != nil {
		t.Fatalf("parsing output: %v\n%s", err, got)
	}
	if m["path"] != path {
		t.Errorf("path = %v, want %s", m["path"], path)
	}
	if _, ok := m["width"].(map[string]any); !ok {
		t.Errorf("width = %v, want an object", m["width"])
	}
	if m["debounce"] != config.DefaultDebounce {
		t.Errorf("debounce = %v, want %s", m["debounce"], config.DefaultDebounce)
	}
}

func TestRunConfigInit_Exists(t *testing.T) {
	dir := isolate(t)
	if _, err := config.Init(dir); err != nil {
		t.Fatal(err)
	}
	err := runConfigInit(configInitCmd, []string{dir})
	wantCode(t, err, clierr.ConfigExists)
}

func TestRunConfigShow_Defaults(t *testing.T) {
	isolate(t)
	setFlags(t, false, true, false)

	r, w := captureStdout(t)
	err := runConfigShow(configShowCmd, nil)
	got := drainPipe(t, r, w)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "# (defaults)\n") {
		t.Errorf("output should start with the source comment:\n%s", got)
	}
	if !strings.Contains(got, "cell_width: 8") {
		t.Errorf("output missing tui.cell_width:\n%s", got)
	}
}

// --- serve ---

func TestRunServe_BadAddr(t *testing.T) {
	isolate(t)
	err := runServe(viewportCmd(t, map[string]string{"addr": "127.0.0.1:notaport"}), nil)
	if err == nil {
		t.Fatal("expected a listen error")
	}
}

// --- watch ---

// syncBuffer collects pipe output written by another goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf strings.Builder
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRunWatch_RecomputesOnChange(t *testing.T) {
	dir := isolate(t)
	path := writeBoard(t, dir, testBoard)
	setFlags(t, false, false, true)

	r, w := captureStdout(t)
	var out syncBuffer
	copied := make(chan struct{})
	go func() {
		_, _ = io.Copy(&out, r)
		close(copied)
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	c := viewportCmd(t, map[string]string{"viewport": "1600"})
	c.SetContext(withLogger(ctx, log.New(io.Discard)))

	done := make(chan error, 1)
	go func() { done <- runWatch(c, []string{path}) }()

	waitForOutput(t, &out, "per_row:2")
	// Give the watcher time to register before changing the file.
	time.Sleep(200 * time.Millisecond)
	if err := os.WriteFile(path, []byte(testBoardThreeColumns), 0o600); err != nil {
		t.Fatal(err)
	}
	waitForOutput(t, &out, "per_row:3")

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("runWatch: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("runWatch did not return after cancel")
	}
	_ = w.Close()
	<-copied
}

func waitForOutput(t *testing.T, out *syncBuffer, want string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(out.String(), want) {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q in output:\n%s", want, out.String())
}
