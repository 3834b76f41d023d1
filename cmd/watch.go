package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/output"
	"github.com/antopolskiy/kanban-layout/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch BOARD",
	Short: "Recompute the layout whenever the board changes",
	Long: `Prints the layout of a board, then watches the board on disk and prints
a fresh layout after every change. Bursts of changes, such as an editor
saving several files, are coalesced into one recomputation.

Stop with Ctrl+C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addViewportFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	vp := viewportFromFlags(cmd, cfg)
	path := args[0]
	snap, err := loadBoard(path)
	if err != nil {
		return err
	}

	opts := cfg.LayoutOptions()
	if err := printLayout(output.NewLayoutReport(snap.Name, snap.Columns, vp, opts)); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	logger := loggerFromContext(ctx)

	w, err := watcher.New(snap.WatchPaths(), cfg.DebounceDuration(), func() {
		next, err := loadBoard(path)
		if err != nil {
			logger.Error("reloading board", "path", path, "err", err)
			return
		}
		if err := printLayout(output.NewLayoutReport(next.Name, next.Columns, vp, opts)); err != nil {
			logger.Error("printing layout", "err", err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	logger.Info("watching", "board", snap.Source(), "debounce", cfg.DebounceDuration())
	w.Run(ctx, func(err error) {
		logger.Warn("watcher error", "err", err)
	})
	return nil
}
