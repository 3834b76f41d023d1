package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/config"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

var widthsCmd = &cobra.Command{
	Use:   "widths BOARD",
	Short: "Fit optimal column widths into a pixel budget",
	Long: `Computes each column's optimal width and distributes a pixel budget
across the columns. When the optimal widths do not fit, columns shrink in
proportion but never below the minimum width. A zero or negative budget
leaves every column at the minimum width.

Without --available, the budget is the configured viewport width minus the
board padding.`,
	Args: cobra.ExactArgs(1),
	RunE: runWidths,
}

func init() {
	widthsCmd.Flags().Int("available", 0, "pixel budget to distribute")
	rootCmd.AddCommand(widthsCmd)
}

func runWidths(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	available := defaultAvailable(cfg)
	if cmd.Flags().Changed("available") {
		available, _ = cmd.Flags().GetInt("available")
	}

	report := output.NewWidthReport(snap.Columns, available, cfg.Width)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, report)
	case output.FormatCompact:
		output.WidthsCompact(os.Stdout, report)
	default:
		output.WidthsTable(os.Stdout, report)
	}
	return nil
}

// defaultAvailable is the available width of the configured viewport.
func defaultAvailable(cfg *config.Config) int {
	return max(cfg.Viewport.Width-cfg.Viewport.Padding, 0)
}
