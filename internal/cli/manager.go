package cli

import (
	"context"

	"apimanager/internal/cli/commands"

	"github.com/spf13/cobra"
)

// Manager handles CLI operations
type Manager struct {
	serve   commands.ServeFunc
	rootCmd *cobra.Command
}

// New creates a new CLI manager. serve is invoked by the serve command.
func New(serve commands.ServeFunc) *Manager {
	m := &Manager{
		serve:   serve,
		rootCmd: createRootCommand(),
	}
	m.setupCommands()
	return m
}

// Root returns the root command
func (m *Manager) Root() *cobra.Command {
	return m.rootCmd
}

// Execute executes the CLI with the given arguments
func (m *Manager) Execute(args []string) error {
	return m.ExecuteWithContext(context.Background(), args)
}

// ExecuteWithContext executes the CLI with the given arguments and context.
// Without arguments the server is started, so the binary can be the
// container entrypoint as-is.
func (m *Manager) ExecuteWithContext(ctx context.Context, args []string) error {
	if len(args) == 0 {
		args = []string{"serve"}
	}
	m.rootCmd.SetArgs(args)
	return m.rootCmd.ExecuteContext(ctx)
}

// setupCommands sets up all CLI commands
func (m *Manager) setupCommands() {
	m.rootCmd.AddCommand(commands.ServeCommand(m.serve))

	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Configuration commands",
		Aliases: []string{"cfg"},
	}
	for _, cmd := range commands.ConfigCommands() {
		configCmd.AddCommand(cmd)
	}
	m.rootCmd.AddCommand(configCmd)

	m.rootCmd.AddCommand(commands.VersionCommand())
}
