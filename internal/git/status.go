package git

import (
	"sort"

	"github.com/go-git/go-git/v5"
)

// FileStatus is one changed path with its index and worktree status codes
// in porcelain notation (" ", "M", "A", "D", "R", "C", "U", "?").
type FileStatus struct {
	Path       string `json:"path"`
	Index      string `json:"index"`
	WorkingDir string `json:"working_dir"`
}

// RenamedFile is a staged rename
type RenamedFile struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// StatusReport is the working-tree status of a repository
type StatusReport struct {
	Current    string        `json:"current"`
	Tracking   string        `json:"tracking"`
	Detached   bool          `json:"detached"`
	Ahead      int           `json:"ahead"`
	Behind     int           `json:"behind"`
	Files      []FileStatus  `json:"files"`
	NotAdded   []string      `json:"not_added"`
	Created    []string      `json:"created"`
	Deleted    []string      `json:"deleted"`
	Modified   []string      `json:"modified"`
	Renamed    []RenamedFile `json:"renamed"`
	Conflicted []string      `json:"conflicted"`
	Staged     []string      `json:"staged"`
	IsClean    bool          `json:"isClean"`
}

func newStatusReport() *StatusReport {
	return &StatusReport{
		Files:      []FileStatus{},
		NotAdded:   []string{},
		Created:    []string{},
		Deleted:    []string{},
		Modified:   []string{},
		Renamed:    []RenamedFile{},
		Conflicted: []string{},
		Staged:     []string{},
		IsClean:    true,
	}
}

// addFiles projects a go-git status onto the report's file lists. Paths are
// visited in sorted order so the lists are stable.
func (r *StatusReport) addFiles(status git.Status) {
	paths := make([]string, 0, len(status))
	for path := range status {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		fs := status[path]
		index, work := fs.Staging, fs.Worktree
		if index == git.Unmodified && work == git.Unmodified {
			continue
		}

		r.Files = append(r.Files, FileStatus{
			Path:       path,
			Index:      string(index),
			WorkingDir: string(work),
		})

		switch {
		case index == git.Untracked || work == git.Untracked:
			r.NotAdded = append(r.NotAdded, path)
			continue
		case index == git.UpdatedButUnmerged || work == git.UpdatedButUnmerged:
			r.Conflicted = append(r.Conflicted, path)
			continue
		}

		switch index {
		case git.Added:
			r.Created = append(r.Created, path)
		case git.Deleted:
			r.Deleted = append(r.Deleted, path)
		case git.Modified:
			r.Modified = append(r.Modified, path)
		case git.Renamed:
			r.Renamed = append(r.Renamed, RenamedFile{From: fs.Extra, To: path})
		}
		if index != git.Unmodified {
			r.Staged = append(r.Staged, path)
		}

		switch work {
		case git.Modified:
			if index != git.Modified {
				r.Modified = append(r.Modified, path)
			}
		case git.Deleted:
			if index != git.Deleted {
				r.Deleted = append(r.Deleted, path)
			}
		}
	}

	r.IsClean = len(r.Files) == 0
}
