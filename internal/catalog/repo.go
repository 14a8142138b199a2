package catalog

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
)

// RepoInfo describes the git repository holding the catalog, if any.
type RepoInfo struct {
	Branch string // Short name of HEAD, empty before the first commit
	Dirty  bool   // Uncommitted or untracked changes present
}

// Label returns a compact form such as "main" or "main*".
func (r RepoInfo) Label() string {
	branch := r.Branch
	if branch == "" {
		branch = "no commits"
	}
	if r.Dirty {
		return branch + "*"
	}
	return branch
}

// LookupRepo finds the repository containing dir, searching parent
// directories below ceiling. The search stops before reaching ceiling, so a
// repository rooted at ceiling or above it is not reported. An empty ceiling
// searches up to the filesystem root. ok is false when no repository is found.
func LookupRepo(dir, ceiling string) (RepoInfo, bool) {
	dir = filepath.Clean(dir)
	for !reaches(dir, ceiling) {
		repo, err := git.PlainOpen(dir)
		if err == nil {
			return describe(repo), true
		}
		if !errors.Is(err, git.ErrRepositoryNotExists) {
			return RepoInfo{}, false
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return RepoInfo{}, false
}

// reaches reports whether dir is ceiling or one of its ancestors
func reaches(dir, ceiling string) bool {
	if ceiling == "" {
		return false
	}
	rel, err := filepath.Rel(dir, filepath.Clean(ceiling))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func describe(repo *git.Repository) RepoInfo {
	var info RepoInfo
	if head, err := repo.Head(); err == nil {
		info.Branch = head.Name().Short()
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}
	return info
}
