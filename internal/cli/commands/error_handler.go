package commands

import (
	"fmt"
	"os"

	"apimanager/internal/errors"
	"apimanager/internal/logger"
)

// HandleError adds a hint for errors an operator can fix
func HandleError(err error) error {
	if err == nil {
		return nil
	}

	logger.WithError(err).Debug("Command failed")

	switch errors.GetCode(err) {
	case errors.ErrConfig:
		return fmt.Errorf("%v\n\nTip: Run 'api-manager config show' to inspect the merged configuration.", err)
	case errors.ErrRuntimeUnavailable:
		return fmt.Errorf("%v\n\nTip: Check that the Docker daemon is running and DOCKER_HOST is correct.", err)
	default:
		return err
	}
}

// ExitCode maps an error to a process exit status
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.HasCode(err, errors.ErrConfig):
		return 78 // EX_CONFIG
	default:
		return 1
	}
}

// ExitOnError prints the error and exits with the matching status
func ExitOnError(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", HandleError(err))
	os.Exit(ExitCode(err))
}
