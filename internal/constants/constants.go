// Package constants defines application-wide constants to avoid magic numbers
package constants

import "time"

// Service identity
const (
	// ServiceName is reported by the health endpoint
	ServiceName = "api-manager"

	// APIPrefix is the route prefix for every managed operation
	APIPrefix = "/api/manager"
)

// Network and Port Constants
const (
	// DefaultServerHost binds all interfaces; the service normally runs inside a container
	DefaultServerHost = "0.0.0.0"

	// DefaultServerPort is the default port for the API server
	DefaultServerPort = 3800

	// DefaultDockerHost is the local Docker control socket
	DefaultDockerHost = "unix:///var/run/docker.sock"
)

// File System
const (
	// DefaultRepoBasePath is the directory every repository folder name is joined against
	DefaultRepoBasePath = "/app/repos"

	// DirPermissions is the standard permission for directories created by the service
	DirPermissions = 0755
)

// HTTP Configuration
const (
	// DefaultServerReadTimeout is the default server read timeout
	DefaultServerReadTimeout = 30 * time.Second

	// DefaultServerWriteTimeout is zero because clone and pull may legitimately run for minutes
	DefaultServerWriteTimeout = 0

	// DefaultServerShutdownTimeout is the default server graceful shutdown timeout
	DefaultServerShutdownTimeout = 30 * time.Second

	// DefaultBodyLimit caps JSON request bodies
	DefaultBodyLimit = "1M"

	// DockerPingTimeout bounds the startup reachability check
	DockerPingTimeout = 5 * time.Second
)

// Logging and Output Limits
const (
	// DefaultLogTailLines is the number of container log lines returned by the logs endpoint
	DefaultLogTailLines = 100

	// MaxErrorMessageLength is the maximum length for error messages before truncation
	MaxErrorMessageLength = 500
)

// Network Port Validation
const (
	// MinPortNumber is the minimum valid TCP port number
	MinPortNumber = 1

	// MaxPortNumber is the maximum valid TCP port number
	MaxPortNumber = 65535
)

// Git
const (
	// DefaultRemoteName is the remote pulled from
	DefaultRemoteName = "origin"
)

// Version is overridden at build time with -ldflags "-X apimanager/internal/constants.Version=..."
var Version = "dev"
