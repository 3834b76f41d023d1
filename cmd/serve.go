package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/antopolskiy/kanban-layout/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the layout engine over HTTP",
	Long: `Starts an HTTP service exposing the layout engine to browser renderers:

  POST /v1/layout      board + viewport -> layout and column dimensions
  POST /v1/analyze     columns -> content metrics
  POST /v1/distribute  columns + budget -> distributed widths
  GET  /v1/classify    ?columns=&viewport=&mobile=&landscape=
  GET  /healthz

Stop with Ctrl+C; in-flight requests are allowed to finish.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	addr := cfg.Server.Addr
	if v, _ := cmd.Flags().GetString("addr"); v != "" {
		addr = v
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(cfg.LayoutOptions(), loggerFromContext(ctx))
	return srv.Serve(ctx, addr)
}
