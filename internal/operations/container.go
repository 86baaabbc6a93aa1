package operations

import (
	"context"
	"strings"

	"apimanager/internal/constants"
	"apimanager/internal/container"
	"apimanager/internal/errors"
)

// ContainerOperations exposes the container gateway to the HTTP layer
type ContainerOperations struct {
	containerMgr ContainerManager
	tailLines    int
}

// NewContainerOperations creates a new ContainerOperations instance
func NewContainerOperations(cm ContainerManager) *ContainerOperations {
	return &ContainerOperations{
		containerMgr: cm,
		tailLines:    constants.DefaultLogTailLines,
	}
}

// ListContainers returns every container, running or stopped
func (co *ContainerOperations) ListContainers(ctx context.Context) ([]container.Summary, error) {
	containers, err := co.containerMgr.List(ctx)
	if err != nil {
		return nil, asRuntimeError(err)
	}
	return containers, nil
}

// StartContainer starts the referenced container
func (co *ContainerOperations) StartContainer(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.MissingParams("id")
	}
	return asRuntimeError(co.containerMgr.Start(ctx, ref))
}

// StopContainer stops the referenced container
func (co *ContainerOperations) StopContainer(ctx context.Context, ref string) error {
	if strings.TrimSpace(ref) == "" {
		return errors.MissingParams("id")
	}
	return asRuntimeError(co.containerMgr.Stop(ctx, ref))
}

// FetchLogs returns the last lines of the container's combined output
func (co *ContainerOperations) FetchLogs(ctx context.Context, ref string) (string, error) {
	if strings.TrimSpace(ref) == "" {
		return "", errors.MissingParams("id")
	}
	logs, err := co.containerMgr.Logs(ctx, ref, co.tailLines)
	if err != nil {
		return "", asRuntimeError(err)
	}
	return logs, nil
}

func asRuntimeError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.RuntimeError(err)
}
