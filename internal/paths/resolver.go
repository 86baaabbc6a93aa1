// Package paths maps repository folder names to directories under the
// configured base directory.
package paths

import (
	"os"
	"path/filepath"
	"strings"

	"apimanager/internal/errors"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// Resolver resolves folder names against a fixed base directory
type Resolver struct {
	base string
}

// NewResolver creates a resolver rooted at base, which must be absolute
func NewResolver(base string) *Resolver {
	return &Resolver{base: filepath.Clean(base)}
}

// Resolve joins folderName onto the base directory. The result is always a
// strict descendant of the base: absolute names, ".." segments that climb
// out, and symlinks inside the base that point elsewhere are rejected.
func (r *Resolver) Resolve(folderName string) (string, error) {
	if strings.TrimSpace(folderName) == "" {
		return "", errors.InvalidFolderName(folderName, "cannot be empty")
	}
	if strings.ContainsRune(folderName, 0) {
		return "", errors.InvalidFolderName(folderName, "contains a NUL byte")
	}
	if filepath.IsAbs(folderName) || strings.HasPrefix(folderName, "/") || strings.HasPrefix(folderName, `\`) {
		return "", errors.InvalidFolderName(folderName, "must be relative to the repository base")
	}

	target := filepath.Join(r.base, folderName)
	rel, err := filepath.Rel(r.base, target)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.InvalidFolderName(folderName, "resolves outside the repository base")
	}

	// SecureJoin evaluates symlinks scoped to the base; any divergence from
	// the lexical join means a link redirected the path.
	scoped, err := securejoin.SecureJoin(r.base, folderName)
	if err != nil {
		return "", errors.InvalidFolderName(folderName, err.Error())
	}
	if scoped != target {
		return "", errors.InvalidFolderName(folderName, "traverses a symbolic link")
	}

	return target, nil
}

// Exists reports whether anything is present at path
func (r *Resolver) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
