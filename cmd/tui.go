package cmd

import (
	"context"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/board"
	"github.com/antopolskiy/kanban-layout/internal/layout"
	"github.com/antopolskiy/kanban-layout/internal/tui"
	"github.com/antopolskiy/kanban-layout/internal/watcher"
)

var tuiCmd = &cobra.Command{
	Use:   "tui BOARD",
	Short: "Preview the responsive layout in the terminal",
	Long: `Renders the board at the widths the layout engine computes, treating each
terminal cell as tui.cell_width pixels. Resizing the terminal recomputes the
layout after the debounce delay; the board live-reloads when it changes on
disk.

Navigate with h/l, press ? for help.`,
	Args: cobra.ExactArgs(1),
	RunE: runTUI,
}

func init() {
	tuiCmd.Flags().Bool("mobile", false, "start with the mobile hint set")
	tuiCmd.Flags().Bool("landscape", false, "start in landscape orientation")
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path := args[0]
	snap, err := loadBoard(path)
	if err != nil {
		return err
	}

	model := tui.NewPreview(snap, cfg.LayoutOptions(), cfg.TUI.CellWidth)
	mobile, _ := cmd.Flags().GetBool("mobile")
	landscape, _ := cmd.Flags().GetBool("landscape")
	model.SetViewportHints(mobile || cfg.Viewport.Mobile, landscape || cfg.Viewport.Landscape)
	model.SetLoader(func() (*board.Snapshot, error) {
		return board.Load(path)
	})

	p := tea.NewProgram(model, tea.WithAltScreen())
	delay := cfg.DebounceDuration()
	model.SetTrigger(layout.NewDebouncedCalculator(func() {
		p.Send(tui.RecomputeMsg{})
	}, delay))

	// Log lines would corrupt the alternate screen.
	ctx, cancel := context.WithCancel(withLogger(cmd.Context(), log.New(io.Discard)))
	defer cancel()

	go startTUIWatcher(ctx, snap.WatchPaths(), delay, p)

	_, err = p.Run()
	return err
}

func startTUIWatcher(ctx context.Context, paths []string, delay time.Duration, p *tea.Program) {
	w, err := watcher.New(paths, delay, func() {
		p.Send(tui.ReloadMsg{})
	})
	if err != nil {
		return // non-fatal: the preview works without live reload
	}
	defer w.Close()
	w.Run(ctx, nil)
}
