package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

var classifyCmd = &cobra.Command{
	Use:   "classify",
	Short: "Pick the layout mode for a column count and viewport",
	Long: `Runs the responsive classifier alone, without a board: prints the layout
mode, columns per row and the uniform column width.`,
	Args: cobra.NoArgs,
	RunE: runClassify,
}

func init() {
	classifyCmd.Flags().Int("columns", 0, "number of board columns")
	_ = classifyCmd.MarkFlagRequired("columns")
	addViewportFlags(classifyCmd)
	rootCmd.AddCommand(classifyCmd)
}

func runClassify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	columns, _ := cmd.Flags().GetInt("columns")
	if columns < 0 {
		return clierr.Newf(clierr.InvalidInput, "--columns must be >= 0, got %d", columns)
	}
	vp := viewportFromFlags(cmd, cfg)

	report := output.NewClassifyReport(columns, vp, cfg.LayoutOptions())

	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, report)
	case output.FormatCompact:
		output.ClassifyCompact(os.Stdout, report)
	default:
		output.ClassifyTable(os.Stdout, report)
	}
	return nil
}
