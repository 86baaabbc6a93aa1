package operations

import (
	"context"
	"strings"

	"apimanager/internal/errors"
	"apimanager/internal/git"
	"apimanager/internal/logger"
)

// RepositoryOperations composes the path resolver and the git gateway into
// the clone, status and pull operations exposed over HTTP.
type RepositoryOperations struct {
	gitMgr   GitManager
	resolver PathResolver
}

// NewRepositoryOperations creates a new RepositoryOperations instance
func NewRepositoryOperations(gm GitManager, resolver PathResolver) *RepositoryOperations {
	return &RepositoryOperations{
		gitMgr:   gm,
		resolver: resolver,
	}
}

// CloneRequest contains parameters for cloning a repository
type CloneRequest struct {
	RepoURL    string `json:"repoUrl"`
	FolderName string `json:"folderName"`
}

// CloneRepo clones req.RepoURL into a new folder under the base directory
// and returns the resolved path. Missing fields and existing targets are
// rejected before git is invoked.
func (ro *RepositoryOperations) CloneRepo(ctx context.Context, req CloneRequest) (string, error) {
	var missing []string
	if strings.TrimSpace(req.RepoURL) == "" {
		missing = append(missing, "repoUrl")
	}
	if strings.TrimSpace(req.FolderName) == "" {
		missing = append(missing, "folderName")
	}
	if len(missing) > 0 {
		return "", errors.MissingParams(missing...)
	}

	path, err := ro.resolver.Resolve(req.FolderName)
	if err != nil {
		return "", err
	}

	if ro.resolver.Exists(path) {
		return "", errors.RepoAlreadyExists(path)
	}

	logger.WithContext(ctx).WithFields(logger.Fields{
		"url":    req.RepoURL,
		"folder": req.FolderName,
	}).Info("Cloning repository")

	if err := ro.gitMgr.Clone(ctx, req.RepoURL, path); err != nil {
		return "", asVCSError(err)
	}
	return path, nil
}

// GetStatus returns the working-tree status of an existing repository folder
func (ro *RepositoryOperations) GetStatus(ctx context.Context, folderName string) (*git.StatusReport, error) {
	path, err := ro.existingPath(folderName)
	if err != nil {
		return nil, err
	}

	report, err := ro.gitMgr.Status(ctx, path)
	if err != nil {
		return nil, asVCSError(err)
	}
	return report, nil
}

// Pull pulls the current branch of an existing repository folder
func (ro *RepositoryOperations) Pull(ctx context.Context, folderName string) error {
	path, err := ro.existingPath(folderName)
	if err != nil {
		return err
	}

	logger.WithContext(ctx).WithField("folder", folderName).Info("Pulling repository")

	if err := ro.gitMgr.Pull(ctx, path); err != nil {
		return asVCSError(err)
	}
	return nil
}

func (ro *RepositoryOperations) existingPath(folderName string) (string, error) {
	if strings.TrimSpace(folderName) == "" {
		return "", errors.MissingParams("folderName")
	}

	path, err := ro.resolver.Resolve(folderName)
	if err != nil {
		return "", err
	}
	if !ro.resolver.Exists(path) {
		return "", errors.RepoNotFound(path)
	}
	return path, nil
}

// asVCSError keeps classified errors and classifies the rest as VCS failures
func asVCSError(err error) error {
	if _, ok := errors.As(err); ok {
		return err
	}
	return errors.VCSError(err)
}
