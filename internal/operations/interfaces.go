package operations

import "apimanager/internal/interfaces"

// Use interfaces from central interfaces package
type (
	ContainerManager = interfaces.ContainerManager
	GitManager       = interfaces.GitManager
	PathResolver     = interfaces.PathResolver
)
