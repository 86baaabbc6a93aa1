package container

import (
	"context"

	"apimanager/internal/errors"
	"apimanager/internal/logger"
)

// logOperationError logs a failed runtime call with structured fields
func logOperationError(ctx context.Context, operation, containerID string, err error) {
	if err == nil {
		return
	}

	fields := logger.Fields{
		"component": "container",
		"operation": operation,
		"code":      string(errors.GetCode(err)),
	}
	if containerID != "" {
		fields["container_id"] = containerID
	}

	entry := logger.WithContext(ctx).WithFields(fields).WithError(err)
	if errors.HasCode(err, errors.ErrNotFound) {
		entry.Info("Container operation rejected")
		return
	}
	entry.Warn("Container operation failed")
}

// logOperation logs a delegated runtime call at debug level
func logOperation(ctx context.Context, operation, containerID string) {
	logger.WithContext(ctx).WithFields(logger.Fields{
		"component":    "container",
		"operation":    operation,
		"container_id": containerID,
	}).Debug("Delegating to container runtime")
}
