package server

import "apimanager/internal/errors"

// ErrorResponse represents an error response
type ErrorResponse = errors.ErrorResponse

// MessageResponse represents a successful operation response
type MessageResponse struct {
	Message string `json:"message"`
}

// CloneResponse is returned after a repository has been cloned
type CloneResponse struct {
	Message string `json:"message"`
	Path    string `json:"path"`
}

// HealthResponse is the fixed liveness body
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
}

// Fixed success messages.
const (
	MsgContainerStarted = "Container started"
	MsgContainerStopped = "Container stopped"
	MsgCloned           = "Cloned successfully"
	MsgPulled           = "Pull successful"
)
