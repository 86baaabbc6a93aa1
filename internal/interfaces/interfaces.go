// Package interfaces provides the gateway contracts shared by the
// operations layer, the HTTP server and the test doubles.
package interfaces

import (
	"context"

	"apimanager/internal/container"
	"apimanager/internal/git"
	"apimanager/internal/paths"
)

// ContainerManager is the container gateway
type ContainerManager interface {
	List(ctx context.Context) ([]container.Summary, error)
	Start(ctx context.Context, containerID string) error
	Stop(ctx context.Context, containerID string) error
	Logs(ctx context.Context, containerID string, tail int) (string, error)
}

// GitManager is the repository gateway. Paths are absolute and already
// resolved against the repository base directory.
type GitManager interface {
	Clone(ctx context.Context, repoURL, path string) error
	Status(ctx context.Context, path string) (*git.StatusReport, error)
	Pull(ctx context.Context, path string) error
}

// PathResolver maps folder names onto the repository base directory
type PathResolver interface {
	Resolve(folderName string) (string, error)
	Exists(path string) bool
}

// Compile-time checks
var (
	_ ContainerManager = (*container.Manager)(nil)
	_ GitManager       = (*git.Manager)(nil)
	_ PathResolver     = (*paths.Resolver)(nil)
)
