package commands

import (
	"fmt"

	"apimanager/internal/constants"

	"github.com/spf13/cobra"
)

// VersionCommand prints the build version
func VersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", constants.ServiceName, constants.Version)
		},
	}
}
