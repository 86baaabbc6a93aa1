package commands

import (
	"context"

	"apimanager/internal/config"

	"github.com/spf13/cobra"
)

// ServeFunc runs the HTTP server until ctx is cancelled
type ServeFunc func(ctx context.Context, cfg *config.Config) error

// ServeCommand creates the command that starts the API server
func ServeCommand(run ServeFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API manager server",
		Long: `Start the HTTP API that manages Docker containers and git repositories
under the configured base directory. Configuration is read from defaults, the
optional --config file (or APIMANAGER_CONFIG) and environment variables.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("port") {
				cfg.Server.Port, _ = cmd.Flags().GetInt("port")
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().IntP("port", "p", 0, "Port to run the server on (overrides config and PORT)")
	addConfigFlag(cmd)
	return cmd
}

func addConfigFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "", "Path to a TOML or YAML configuration file")
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path)
}
