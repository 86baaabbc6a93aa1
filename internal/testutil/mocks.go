package testutil

import (
	"context"

	"apimanager/internal/container"
	"apimanager/internal/git"

	"github.com/stretchr/testify/mock"
)

// MockContainerManager is a mock implementation of the container gateway
type MockContainerManager struct {
	mock.Mock
}

// NewMockContainerManager creates a new mock container manager
func NewMockContainerManager() *MockContainerManager {
	return &MockContainerManager{}
}

// List lists containers
func (m *MockContainerManager) List(ctx context.Context) ([]container.Summary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]container.Summary), args.Error(1)
}

// Start starts a container
func (m *MockContainerManager) Start(ctx context.Context, containerID string) error {
	return m.Called(ctx, containerID).Error(0)
}

// Stop stops a container
func (m *MockContainerManager) Stop(ctx context.Context, containerID string) error {
	return m.Called(ctx, containerID).Error(0)
}

// Logs returns container logs
func (m *MockContainerManager) Logs(ctx context.Context, containerID string, tail int) (string, error) {
	args := m.Called(ctx, containerID, tail)
	return args.String(0), args.Error(1)
}

// MockGitManager is a mock implementation of the repository gateway
type MockGitManager struct {
	mock.Mock
}

// NewMockGitManager creates a new mock git manager
func NewMockGitManager() *MockGitManager {
	return &MockGitManager{}
}

// Clone clones a repository
func (m *MockGitManager) Clone(ctx context.Context, repoURL, path string) error {
	return m.Called(ctx, repoURL, path).Error(0)
}

// Status returns repository status
func (m *MockGitManager) Status(ctx context.Context, path string) (*git.StatusReport, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*git.StatusReport), args.Error(1)
}

// Pull pulls a repository
func (m *MockGitManager) Pull(ctx context.Context, path string) error {
	return m.Called(ctx, path).Error(0)
}
