package container

import (
	stderrors "errors"
	"net"

	"apimanager/internal/errors"

	"github.com/docker/docker/client"
	"github.com/docker/docker/errdefs"
)

// classify maps a Docker client error onto the service error taxonomy.
func classify(containerID string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errdefs.IsNotFound(err):
		return errors.ContainerNotFound(containerID, err)
	case isUnavailable(err):
		return errors.RuntimeUnavailable(err)
	default:
		return errors.RuntimeError(err)
	}
}

// isUnavailable reports whether the daemon could not be reached at all.
func isUnavailable(err error) bool {
	if client.IsErrConnectionFailed(err) {
		return true
	}
	var opErr *net.OpError
	return stderrors.As(err, &opErr) && opErr.Op == "dial"
}
