package main

import (
	"github.com/spf13/cobra"

	"github.com/wildlabs/taxamatch/internal/api"
	"github.com/wildlabs/taxamatch/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}

	apiCmd := registry.BuildCommands(getServerURL)

	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	rootCmd.AddCommand(apiCmd)
}

// taxonomyCmd groups the taxonomy commands under their own subcommand for
// discoverability; the same endpoints are also reachable via "api".
var taxonomyCmd = &cobra.Command{
	Use:   "taxonomy",
	Short: "Reference taxonomy commands",
}

func init() {
	statsCmd := (&endpoints.TaxonomyStatsEndpoint{}).Command(getServerURL)
	statsCmd.Use = "stats"
	reloadCmd := (&endpoints.TaxonomyReloadEndpoint{}).Command(getServerURL)
	reloadCmd.Use = "reload"

	taxonomyCmd.AddCommand(statsCmd)
	taxonomyCmd.AddCommand(reloadCmd)
	taxonomyCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	rootCmd.AddCommand(taxonomyCmd)
}
