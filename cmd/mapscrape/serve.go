package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the mapscrape server",
	Long: `Start the mapscrape HTTP server and search page.

The server holds one search result in memory and runs one search at a time.
Config file changes are picked up without a restart.

The server provides:
  - /                   - Search page
  - /api/search         - Run a search (POST)
  - /api/results/export - Download the current result as CSV
  - /health, /ready     - Health checks
  - /metrics            - Prometheus metrics

Examples:
  mapscrape serve                    # Start on the configured port (default 8080)
  mapscrape serve --port 3000        # Start on custom port
  mapscrape serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		mgr, h, err := loadConfig()
		if err != nil {
			return err
		}
		cfg := mgr.Get()

		logger := newLogger(cfg.Log)
		mgr.SetLogger(logger)
		if used := mgr.ConfigFileUsed(); used != "" {
			logger.Info("loaded config", "file", used)
			mgr.WatchConfig()
		}

		if err := h.EnsureExists(); err != nil {
			return err
		}

		host, port := cfg.Server.Host, cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host = serveHost
		}
		if cmd.Flags().Changed("port") {
			port = servePort
		}

		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: mgr,
			Home:          h,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
