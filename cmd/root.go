// Package cmd implements the kanban-layout CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/board"
	"github.com/antopolskiy/kanban-layout/internal/clierr"
	"github.com/antopolskiy/kanban-layout/internal/config"
	"github.com/antopolskiy/kanban-layout/internal/output"
)

// version is set at build time via ldflags.
var version = "dev"

// Global flags.
var (
	flagJSON    bool
	flagTable   bool
	flagCompact bool
	flagConfig  string
	flagNoColor bool
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "kanban-layout",
	Short: "Adaptive column widths and responsive layouts for kanban boards",
	Long: `kanban-layout sizes kanban board columns from their content and picks a
responsive layout for a viewport. Boards are read from YAML, TOML or JSON
snapshots, or straight from a kanban-md board directory.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		if flagNoColor || os.Getenv("NO_COLOR") != "" {
			output.DisableColor()
		}
		level := log.InfoLevel
		if flagVerbose {
			level = log.DebugLevel
		}
		cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, level)))
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagTable, "table", false, "output as table")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "compact", false, "compact one-line-per-record output")
	rootCmd.PersistentFlags().BoolVar(&flagCompact, "oneline", false, "alias for --compact")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to kanban-layout.yml")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable color output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() {
	_, err := rootCmd.ExecuteContextC(context.Background())
	if err == nil {
		return
	}

	var silent *clierr.SilentError
	if errors.As(err, &silent) {
		os.Exit(silent.Code)
	}

	if flagJSON || os.Getenv(output.EnvFormat) == "json" {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) {
			output.JSONError(os.Stdout, cliErr.Code, cliErr.Message, cliErr.Details)
			os.Exit(cliErr.ExitCode())
		}
		output.JSONError(os.Stdout, clierr.InternalError, err.Error(), nil)
		os.Exit(2) //nolint:mnd // exit code 2 for internal errors
	}

	fmt.Fprintln(os.Stderr, "Error:", err)
	var cliErr *clierr.Error
	if errors.As(err, &cliErr) {
		os.Exit(cliErr.ExitCode())
	}
	os.Exit(1)
}

// loadConfig loads --config, or the nearest kanban-layout.yml above the
// working directory. Without either, the defaults apply.
func loadConfig() (*config.Config, error) {
	if flagConfig != "" {
		cfg, err := config.Load(flagConfig)
		if errors.Is(err, config.ErrNotFound) {
			return nil, clierr.Newf(clierr.ConfigNotFound, "config not found: %s", flagConfig).
				WithDetails(map[string]any{"path": flagConfig})
		}
		return cfg, invalidConfig(err, flagConfig)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("getting working directory: %w", err)
	}

	path, err := config.FindPath(cwd)
	if err != nil {
		var cliErr *clierr.Error
		if errors.As(err, &cliErr) && cliErr.Code == clierr.ConfigNotFound {
			return config.NewDefault(), nil
		}
		return nil, err
	}
	cfg, err := config.Load(path)
	return cfg, invalidConfig(err, path)
}

// invalidConfig gives validation failures the INVALID_CONFIG code.
func invalidConfig(err error, path string) error {
	if errors.Is(err, config.ErrInvalid) {
		return clierr.New(clierr.InvalidConfig, err.Error()).
			WithDetails(map[string]any{"path": path})
	}
	return err
}

// loadBoard reads a board snapshot and reports skipped task files.
func loadBoard(path string) (*board.Snapshot, error) {
	snap, err := board.Load(path)
	if err != nil {
		return nil, err
	}
	printWarnings(snap.Warnings)
	return snap, nil
}

// outputFormat returns the detected output format from flags/env.
func outputFormat() output.Format {
	return output.Detect(flagJSON, flagTable, flagCompact)
}

// printWarnings writes task read warnings to stderr.
func printWarnings(warnings []board.ReadWarning) {
	for _, w := range warnings {
		fmt.Fprintf(os.Stderr, "Warning: skipping malformed file %s: %s\n", w.File, w.Err)
	}
}
