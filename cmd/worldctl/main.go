package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "worldctl",
		Short: "Talk to the world entity relay from the command line",
	}
	root.Version = version
	root.SetVersionTemplate("{{.Version}}\n")
	root.PersistentFlags().String("server", defaultServerURL(), "Relay base URL")
	root.AddCommand(chatCmd())
	root.AddCommand(entityCmd())
	root.AddCommand(mcpCmd())
	root.AddCommand(versionCmd())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func defaultServerURL() string {
	if v := os.Getenv("WORLDCTL_SERVER"); v != "" {
		return v
	}
	return "http://localhost:5000"
}

func serverFlag(cmd *cobra.Command) string {
	server, _ := cmd.Flags().GetString("server")
	return server
}
