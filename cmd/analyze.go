package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/output"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze BOARD",
	Short: "Show per-column content metrics",
	Long: `Analyzes every column of a board and prints its content metrics
(card count, average card title length, complexity score and content flags)
together with the content-driven optimal width.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	snap, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	rows := output.NewMetricsRows(snap.Columns, cfg.Width)

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, rows)
	case output.FormatCompact:
		output.MetricsCompact(os.Stdout, rows)
	default:
		output.MetricsTable(os.Stdout, rows)
	}
	return nil
}
