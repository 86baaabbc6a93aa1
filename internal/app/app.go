package app

import (
	"context"

	"apimanager/internal/cli"
	"apimanager/internal/config"
	"apimanager/internal/constants"
	"apimanager/internal/container"
	"apimanager/internal/git"
	"apimanager/internal/logger"
	"apimanager/internal/operations"
	"apimanager/internal/paths"
	"apimanager/internal/server"
)

// App represents the main application
type App struct {
	Config    *config.Config
	Container *container.Manager
	Git       *git.Manager
	Server    *server.Server
	CLI       *cli.Manager
}

// New creates a new application instance
func New() *App {
	a := &App{}
	a.CLI = cli.New(a.runServer)
	return a
}

// Run starts the application
func (a *App) Run(args []string) error {
	return a.RunWithContext(context.Background(), args)
}

// RunWithContext starts the application with a context for cancellation
func (a *App) RunWithContext(ctx context.Context, args []string) error {
	return a.CLI.ExecuteWithContext(ctx, args)
}

// Build wires the gateways, operations and HTTP server from cfg
func (a *App) Build(cfg *config.Config) error {
	logger.SetLevel(cfg.Log.Level)
	logger.SetFormat(cfg.Log.Format)

	engine, err := container.NewEngineClient(cfg.Docker.Host)
	if err != nil {
		return err
	}

	a.Config = cfg
	a.Container = container.New(engine)
	a.Git = git.New(cfg.Git)

	resolver := paths.NewResolver(cfg.Repos.BasePath)
	a.Server = server.New(cfg,
		operations.NewContainerOperations(a.Container),
		operations.NewRepositoryOperations(a.Git, resolver),
	)
	return nil
}

// runServer runs the application in server mode
func (a *App) runServer(ctx context.Context, cfg *config.Config) error {
	if err := a.Build(cfg); err != nil {
		return err
	}
	defer a.Container.Close()

	// Docker may come up after us; requests report the failure instead.
	pingCtx, cancel := context.WithTimeout(ctx, constants.DockerPingTimeout)
	if err := a.Container.Ping(pingCtx); err != nil {
		logger.WithError(err).WithField("docker_host", cfg.Docker.Host).Warn("Docker daemon not reachable")
	}
	cancel()

	logger.WithFields(logger.Fields{
		"addr":      cfg.Address(),
		"base_path": cfg.Repos.BasePath,
		"operation": "server_start",
	}).Info("Starting api-manager server")
	return a.Server.Start(ctx)
}
