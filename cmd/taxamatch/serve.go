package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/config"
	"github.com/wildlabs/taxamatch/internal/home"
	"github.com/wildlabs/taxamatch/internal/server"
)

var (
	serveHost     string
	servePort     string
	serveTaxonomy string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the taxamatch server",
	Long: `Start the taxamatch HTTP server.

The server loads the reference taxonomy at startup and serves the match
API together with a small web form at /.

Examples:
  taxamatch serve                       # Start on default port 8080
  taxamatch serve --port 3000           # Start on custom port
  taxamatch serve --taxonomy ./ref.txt  # Use a specific reference table`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load config with hot-reload support
		cfgMgr, err := config.NewManager(cfgFile)
		if err != nil {
			return err
		}
		cfgMgr.WatchConfig()

		host := serveHost
		if host == "" {
			host = cfgMgr.Get().Server.Host
		}
		port := servePort
		if port == "" {
			port = cfgMgr.Get().Server.Port
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			TaxonomyPath:  serveTaxonomy,
			ConfigManager: cfgMgr,
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
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default from config)")
	serveCmd.Flags().StringVar(&servePort, "port", "", "Port to listen on (default from config)")
	serveCmd.Flags().StringVar(&serveTaxonomy, "taxonomy", "", "Reference table path (default from config)")

	rootCmd.AddCommand(serveCmd)
}
