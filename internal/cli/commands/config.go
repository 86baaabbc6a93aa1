package commands

import (
	"fmt"

	"apimanager/internal/config"

	"github.com/spf13/cobra"
)

// ConfigCommands creates configuration inspection commands
func ConfigCommands() []*cobra.Command {
	commands := []*cobra.Command{}

	// api-manager config show
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Long:  `Print the configuration after defaults, file and environment are merged. Credentials are omitted.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			format, _ := cmd.Flags().GetString("format")
			return cfg.Write(cmd.OutOrStdout(), format)
		},
	}
	addConfigFlag(showCmd)
	showCmd.Flags().StringP("format", "f", "toml", "Output format: toml or yaml")
	commands = append(commands, showCmd)

	// api-manager config validate [config-file]
	validateCmd := &cobra.Command{
		Use:   "validate [config-file]",
		Short: "Validate a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			if _, err := config.Load(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Configuration is valid")
			return nil
		},
	}
	commands = append(commands, validateCmd)

	return commands
}
