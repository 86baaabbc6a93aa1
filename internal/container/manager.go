package container

import (
	"bytes"
	"context"
	"io"
	"strconv"

	"apimanager/internal/constants"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// Manager is the container gateway: each method performs one call against
// the container runtime and classifies its failure.
type Manager struct {
	engine EngineClient
}

// New creates a container manager over the given engine client
func New(engine EngineClient) *Manager {
	return &Manager{engine: engine}
}

// List returns every container known to the runtime, running or stopped
func (m *Manager) List(ctx context.Context) ([]Summary, error) {
	logOperation(ctx, "list", "")

	containers, err := m.engine.ContainerList(ctx, container.ListOptions{All: true})
	if err != nil {
		err = classify("", err)
		logOperationError(ctx, "list", "", err)
		return nil, err
	}
	if containers == nil {
		containers = []Summary{}
	}
	return containers, nil
}

// Start asks the runtime to start a container
func (m *Manager) Start(ctx context.Context, containerID string) error {
	logOperation(ctx, "start", containerID)

	if err := m.engine.ContainerStart(ctx, containerID, container.StartOptions{}); err != nil {
		err = classify(containerID, err)
		logOperationError(ctx, "start", containerID, err)
		return err
	}
	return nil
}

// Stop asks the runtime to stop a container using the runtime's default timeout
func (m *Manager) Stop(ctx context.Context, containerID string) error {
	logOperation(ctx, "stop", containerID)

	if err := m.engine.ContainerStop(ctx, containerID, container.StopOptions{}); err != nil {
		err = classify(containerID, err)
		logOperationError(ctx, "stop", containerID, err)
		return err
	}
	return nil
}

// Logs returns the last tail lines of stdout and stderr combined. A
// non-positive tail falls back to the default.
func (m *Manager) Logs(ctx context.Context, containerID string, tail int) (string, error) {
	if tail <= 0 {
		tail = constants.DefaultLogTailLines
	}
	logOperation(ctx, "logs", containerID)

	reader, err := m.engine.ContainerLogs(ctx, containerID, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Tail:       strconv.Itoa(tail),
	})
	if err != nil {
		err = classify(containerID, err)
		logOperationError(ctx, "logs", containerID, err)
		return "", err
	}
	defer reader.Close()

	raw, err := io.ReadAll(reader)
	if err != nil {
		err = classify(containerID, err)
		logOperationError(ctx, "logs", containerID, err)
		return "", err
	}

	return demux(raw), nil
}

// Ping checks that the runtime is reachable
func (m *Manager) Ping(ctx context.Context) error {
	if _, err := m.engine.Ping(ctx); err != nil {
		return classify("", err)
	}
	return nil
}

// Close releases the engine client
func (m *Manager) Close() error {
	return m.engine.Close()
}

// demux strips the stream framing Docker adds for containers without a TTY.
// TTY containers produce an unframed stream, which is returned as is.
func demux(raw []byte) string {
	var out bytes.Buffer
	_, err := stdcopy.StdCopy(&out, &out, bytes.NewReader(raw))
	// Unframed output shorter than one header decodes to nothing without error.
	if err != nil || (out.Len() == 0 && len(raw) > 0) {
		return string(raw)
	}
	return out.String()
}
