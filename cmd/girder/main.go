package main

import (
	"fmt"
	"os"

	"github.com/carvallo/girder/internal/client"
	"github.com/carvallo/girder/internal/ui"
	"github.com/spf13/cobra"
)

var (
	serverURL  string
	authToken  string
	jsonOutput bool

	girderClient client.GirderClient
)

func defaultServerURL() string {
	if s := os.Getenv("GIRDER_SERVER"); s != "" {
		return s
	}
	if u := activeRemoteURL(); u != "" {
		return u
	}
	return "http://localhost:8080"
}

func defaultAuthToken() string {
	if s := os.Getenv("GIRDER_AUTH_TOKEN"); s != "" {
		return s
	}
	return activeRemoteToken()
}

var rootCmd = &cobra.Command{
	Use:   "girder <command>",
	Short: "CLI client for the girder dashboard gateway",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		girderClient = client.NewHTTPClient(serverURL, authToken)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if girderClient != nil {
			girderClient.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", defaultServerURL(), "girder server URL")
	rootCmd.PersistentFlags().StringVar(&authToken, "token", defaultAuthToken(), "bearer token for the server")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddGroup(
		&cobra.Group{ID: "views", Title: "Views:"},
		&cobra.Group{ID: "mutations", Title: "Mutations:"},
		&cobra.Group{ID: "system", Title: "System:"},
	)

	cobra.EnableCommandSorting = false

	// Views
	rootCmd.AddCommand(projectsCmd)
	rootCmd.AddCommand(watchCmd)

	// Mutations
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(cashflowCmd)

	// System
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(remoteCmd)
}

func main() {
	if !ui.ShouldUseColor() {
		ui.ForceNoColor()
	}
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
