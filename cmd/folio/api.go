package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/folio/internal/server/endpoints"
)

var serverURL string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Commands that call the running server",
	Long: `API commands call the running Folio server via HTTP.

These commands require a running server (folio serve).
Use --server to specify a custom server URL.

Examples:
  folio api health               # Check server health
  folio api import manifest.json # Import a manifest
  folio api chapters             # List chapters from the current import`,
}

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func init() {
	// Add --server flag to api command (persistent so all subcommands inherit it)
	apiCmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)

	// Health endpoints at top level of api
	apiCmd.AddCommand((&endpoints.HealthEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ReadyEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.StatusEndpoint{}).Command(getServerURL))

	// Manifest endpoints
	apiCmd.AddCommand((&endpoints.ImportEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.GetManifestEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.GetBookEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.ListChaptersEndpoint{}).Command(getServerURL))
	apiCmd.AddCommand((&endpoints.GetChapterEndpoint{}).Command(getServerURL))

	rootCmd.AddCommand(apiCmd)
}
