// Package revision identifies the git commit a scanned document was taken from.
package revision

import (
	"errors"
	"fmt"
	"path/filepath"

	ggit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// Of returns the HEAD commit hash of the git work tree containing path. Paths outside
// a repository, and repositories without commits, yield an empty string and no error.
func Of(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve path: %w", err)
	}

	repo, err := ggit.PlainOpenWithOptions(filepath.Dir(abs), &ggit.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, ggit.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("open git repository: %w", err)
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read HEAD: %w", err)
	}
	return ref.Hash().String(), nil
}
