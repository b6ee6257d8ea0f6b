package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/mapscrape/internal/api"
	"github.com/jackzampolin/mapscrape/internal/server/endpoints"
)

var serverURL string

// getServerURL returns the server URL at runtime (after flag parsing).
func getServerURL() string {
	return serverURL
}

func newAPICmd() *cobra.Command {
	registry := api.NewRegistry()
	for _, ep := range endpoints.All() {
		registry.Register(ep)
	}

	cmd := registry.BuildCommands(getServerURL)
	cmd.AddCommand(endpoints.WaitCommand(getServerURL))

	// Add --server flag to api command (persistent so all subcommands inherit it)
	cmd.PersistentFlags().StringVar(
		&serverURL, "server", "http://localhost:8080", "Server URL",
	)
	return cmd
}

func init() {
	rootCmd.AddCommand(newAPICmd())
}
