package git

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"

	"apimanager/internal/config"
	"apimanager/internal/constants"
	"apimanager/internal/errors"
	"apimanager/internal/logger"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// Manager is the repository gateway: clone, status and pull against
// working trees on local disk.
type Manager struct {
	auth       config.GitConfig
	remoteName string
}

// New creates a new Git manager
func New(cfg config.GitConfig) *Manager {
	return &Manager{
		auth:       cfg,
		remoteName: constants.DefaultRemoteName,
	}
}

// Clone clones repoURL into path. path must not exist; a failed clone
// removes everything it created, including missing parent directories.
func (m *Manager) Clone(ctx context.Context, repoURL, path string) error {
	log := logger.WithContext(ctx).WithFields(logger.Fields{
		"component": "git",
		"operation": "clone",
		"url":       repoURL,
		"path":      path,
	})

	if _, err := os.Lstat(path); err == nil {
		return errors.RepoAlreadyExists(path)
	}

	created := firstMissing(path)
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		removeCreated(path, created)
		return errors.VCSError(err)
	}

	log.Debug("Cloning repository")
	_, err := git.PlainCloneContext(ctx, path, false, &git.CloneOptions{
		URL:  repoURL,
		Auth: authMethod(m.auth, repoURL),
	})
	if err != nil {
		if rmErr := removeCreated(path, created); rmErr != nil {
			log.WithError(rmErr).Warn("Failed to remove partial clone")
		}
		log.WithError(err).Warn("Clone failed")
		return errors.VCSError(err)
	}

	log.Info("Repository cloned")
	return nil
}

// firstMissing returns the outermost directory that creating path would
// add: path itself when its parent exists.
func firstMissing(path string) string {
	missing := path
	for dir := filepath.Dir(path); dir != missing; dir = filepath.Dir(dir) {
		if _, err := os.Lstat(dir); err == nil {
			break
		}
		missing = dir
	}
	return missing
}

// removeCreated deletes path and then each parent up to and including
// created. Parents are only removed while empty.
func removeCreated(path, created string) error {
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	for dir := path; dir != created; {
		dir = filepath.Dir(dir)
		if err := os.Remove(dir); err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil
		}
	}
	return nil
}

// Status returns the working-tree status of the repository at path
func (m *Manager) Status(ctx context.Context, path string) (*StatusReport, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, errors.VCSError(err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return nil, errors.VCSError(err)
	}

	status, err := wt.Status()
	if err != nil {
		return nil, errors.VCSError(err)
	}

	report := newStatusReport()
	report.addFiles(status)

	logger.WithContext(ctx).WithFields(logger.Fields{
		"component": "git",
		"operation": "status",
		"path":      path,
		"clean":     report.IsClean,
	}).Debug("Repository status read")

	head, err := repo.Head()
	switch {
	case stderrors.Is(err, plumbing.ErrReferenceNotFound):
		// Unborn branch: HEAD points at a branch with no commits yet.
		if sym, symErr := repo.Storer.Reference(plumbing.HEAD); symErr == nil && sym.Type() == plumbing.SymbolicReference {
			report.Current = sym.Target().Short()
		}
		return report, nil
	case err != nil:
		return nil, errors.VCSError(err)
	}

	if !head.Name().IsBranch() {
		report.Detached = true
		report.Current = "HEAD"
		return report, nil
	}
	report.Current = head.Name().Short()

	upstream, remoteRef, ok := m.upstream(repo, report.Current)
	if !ok {
		return report, nil
	}
	report.Tracking = upstream

	ref, err := repo.Reference(remoteRef, true)
	if err != nil {
		// Upstream configured but never fetched.
		return report, nil
	}

	ahead, behind, err := aheadBehind(ctx, repo, head.Hash(), ref.Hash())
	if err != nil {
		return nil, errors.VCSError(err)
	}
	report.Ahead, report.Behind = ahead, behind
	return report, nil
}

// Pull fetches the current branch's upstream and fast-forwards the working
// tree. Being already up to date is not an error.
func (m *Manager) Pull(ctx context.Context, path string) error {
	log := logger.WithContext(ctx).WithFields(logger.Fields{
		"component": "git",
		"operation": "pull",
		"path":      path,
	})

	repo, err := git.PlainOpen(path)
	if err != nil {
		return errors.VCSError(err)
	}

	wt, err := repo.Worktree()
	if err != nil {
		return errors.VCSError(err)
	}

	opts := &git.PullOptions{RemoteName: m.remoteName}

	if head, err := repo.Head(); err == nil && head.Name().IsBranch() {
		if cfg, err := repo.Config(); err == nil {
			if b, ok := cfg.Branches[head.Name().Short()]; ok && b.Remote != "" && b.Remote != "." {
				opts.RemoteName = b.Remote
				opts.ReferenceName = b.Merge
			}
		}
	}

	if remote, err := repo.Remote(opts.RemoteName); err == nil && len(remote.Config().URLs) > 0 {
		opts.Auth = authMethod(m.auth, remote.Config().URLs[0])
	}

	log.Debug("Pulling repository")
	err = wt.PullContext(ctx, opts)
	if err != nil && !stderrors.Is(err, git.NoErrAlreadyUpToDate) {
		log.WithError(err).Warn("Pull failed")
		return errors.VCSError(err)
	}

	log.Info("Repository pulled")
	return nil
}

// upstream returns the display name ("origin/main") and remote-tracking
// reference of branch's configured upstream.
func (m *Manager) upstream(repo *git.Repository, branch string) (string, plumbing.ReferenceName, bool) {
	cfg, err := repo.Config()
	if err != nil {
		return "", "", false
	}
	b, ok := cfg.Branches[branch]
	if !ok || b.Remote == "" || b.Remote == "." || b.Merge == "" {
		return "", "", false
	}
	short := b.Merge.Short()
	return b.Remote + "/" + short, plumbing.NewRemoteReferenceName(b.Remote, short), true
}

// aheadBehind counts commits reachable from local but not upstream (ahead)
// and from upstream but not local (behind).
func aheadBehind(ctx context.Context, repo *git.Repository, local, upstream plumbing.Hash) (int, int, error) {
	if local == upstream {
		return 0, 0, nil
	}

	localSet, err := ancestors(ctx, repo, local)
	if err != nil {
		return 0, 0, err
	}
	upstreamSet, err := ancestors(ctx, repo, upstream)
	if err != nil {
		return 0, 0, err
	}

	ahead, behind := 0, 0
	for h := range localSet {
		if _, ok := upstreamSet[h]; !ok {
			ahead++
		}
	}
	for h := range upstreamSet {
		if _, ok := localSet[h]; !ok {
			behind++
		}
	}
	return ahead, behind, nil
}

func ancestors(ctx context.Context, repo *git.Repository, from plumbing.Hash) (map[plumbing.Hash]struct{}, error) {
	iter, err := repo.Log(&git.LogOptions{From: from})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	seen := make(map[plumbing.Hash]struct{})
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		seen[c.Hash] = struct{}{}
		return nil
	})
	return seen, err
}
