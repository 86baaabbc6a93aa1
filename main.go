package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"apimanager/internal/app"
	"apimanager/internal/cli/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	application := app.New()
	commands.ExitOnError(application.RunWithContext(ctx, os.Args[1:]))
}
