package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/config"
	"github.com/antopolskiy/kanban-layout/internal/layout"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

var layoutCmd = &cobra.Command{
	Use:   "layout BOARD",
	Short: "Compute the responsive layout of a board",
	Long: `Classifies the viewport into a layout mode and sizes every column:
uniform widths in mobile and tablet modes, content-driven widths on desktop.`,
	Args: cobra.ExactArgs(1),
	RunE: runLayout,
}

func init() {
	addViewportFlags(layoutCmd)
	rootCmd.AddCommand(layoutCmd)
}

// addViewportFlags registers --viewport, --mobile and --landscape.
func addViewportFlags(c *cobra.Command) {
	c.Flags().Int("viewport", 0, "viewport width in pixels (default from config)")
	c.Flags().Bool("mobile", false, "mark the viewport as a mobile device")
	c.Flags().Bool("landscape", false, "mark the viewport as landscape")
}

// viewportFromFlags starts from the configured viewport and applies any
// flags that were set. Negative widths are passed on; the engine classifies
// them as a zero-width mobile-stack viewport.
func viewportFromFlags(cmd *cobra.Command, cfg *config.Config) layout.Viewport {
	vp := cfg.DefaultViewport()
	if cmd.Flags().Changed("viewport") {
		vp.Width, _ = cmd.Flags().GetInt("viewport")
	}
	if cmd.Flags().Changed("mobile") {
		vp.Mobile, _ = cmd.Flags().GetBool("mobile")
	}
	if cmd.Flags().Changed("landscape") {
		vp.Landscape, _ = cmd.Flags().GetBool("landscape")
	}
	return vp
}

func runLayout(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	vp := viewportFromFlags(cmd, cfg)
	snap, err := loadBoard(args[0])
	if err != nil {
		return err
	}

	return printLayout(output.NewLayoutReport(snap.Name, snap.Columns, vp, cfg.LayoutOptions()))
}

func printLayout(report output.LayoutReport) error {
	switch outputFormat() {
	case output.FormatJSON:
		return output.JSON(os.Stdout, report)
	case output.FormatCompact:
		output.LayoutCompact(os.Stdout, report)
	default:
		output.LayoutTable(os.Stdout, report)
	}
	return nil
}
