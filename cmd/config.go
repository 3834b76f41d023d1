package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/antopolskiy/kanban-layout/internal/config"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create or view the layout configuration",
	Long:  `Shows the effective configuration, or writes a default kanban-layout.yml.`,
	RunE:  runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init [DIR]",
	Short: "Write a default kanban-layout.yml",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runConfigInit,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if outputFormat() == output.FormatJSON {
		// Round-trip through YAML so JSON keys match the file's.
		var m map[string]any
		if err := yaml.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("converting config: %w", err)
		}
		m["path"] = cfg.Path()
		return output.JSON(os.Stdout, m)
	}

	source := cfg.Path()
	if source == "" {
		source = "(defaults)"
	}
	fmt.Fprintf(os.Stdout, "# %s\n%s", source, data)
	return nil
}

func runConfigInit(_ *cobra.Command, args []string) error {
	dir := "."
	if len(args) == 1 {
		dir = args[0]
	}

	cfg, err := config.Init(dir)
	if err != nil {
		return err
	}

	if outputFormat() == output.FormatJSON {
		return output.JSON(os.Stdout, map[string]any{"path": cfg.Path()})
	}
	output.Messagef(os.Stdout, "Created %s", cfg.Path())
	return nil
}
