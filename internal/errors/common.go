package errors

import "fmt"

// Messages returned verbatim to clients.
const (
	MsgMissingParams     = "Missing params"
	MsgRepoAlreadyExists = "Repo already exists"
	MsgRepoNotFound      = "Repo not found"
)

// Request Errors
func MissingParams(fields ...string) *Error {
	e := New(ErrBadRequest, MsgMissingParams)
	if len(fields) > 0 {
		e.Cause = fmt.Errorf("missing required fields: %v", fields)
	}
	return e
}

func InvalidFolderName(name, reason string) *Error {
	return Wrap(ErrBadRequest, "Invalid folder name", fmt.Errorf("folder %q: %s", name, reason))
}

func InvalidBody(cause error) *Error {
	return Wrap(ErrBadRequest, "Invalid request body", cause)
}

// Repository Errors
func RepoAlreadyExists(path string) *Error {
	return Wrap(ErrConflict, MsgRepoAlreadyExists, fmt.Errorf("path exists: %s", path))
}

func RepoNotFound(path string) *Error {
	return Wrap(ErrNotFound, MsgRepoNotFound, fmt.Errorf("path does not exist: %s", path))
}

// VCSError surfaces a git failure with the engine's own message.
func VCSError(cause error) *Error {
	return Wrap(ErrVCS, cause.Error(), cause)
}

// Container Errors
func ContainerNotFound(id string, cause error) *Error {
	msg := fmt.Sprintf("No such container: %s", id)
	if cause != nil {
		msg = cause.Error()
	}
	return Wrap(ErrNotFound, msg, cause)
}

func RuntimeUnavailable(cause error) *Error {
	return Wrap(ErrRuntimeUnavailable, cause.Error(), cause)
}

// RuntimeError surfaces any other runtime failure with the runtime's message.
func RuntimeError(cause error) *Error {
	return Wrap(ErrRuntime, cause.Error(), cause)
}

// Internal Errors
func InternalError(details string, cause error) *Error {
	return Wrap(ErrInternal, details, cause)
}

func ConfigInvalid(field, reason string) *Error {
	return New(ErrConfig, fmt.Sprintf("invalid configuration: %s: %s", field, reason))
}
