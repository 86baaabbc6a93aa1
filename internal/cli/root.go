package cli

import (
	"github.com/spf13/cobra"
)

// createRootCommand creates the root command with global flags
func createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "api-manager",
		Short: "HTTP control plane for Docker containers and git repositories",
		Long: `api-manager exposes a small HTTP API for listing, starting and stopping
Docker containers, reading their logs, and cloning, inspecting and pulling git
repositories kept under a single base directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	return rootCmd
}
