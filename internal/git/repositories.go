package git

import (
	"path/filepath"
	"sort"
	"strings"
)

// RepositorySet is a deduplicated set of canonical repository roots. Every
// candidate is resolved to its root before insertion, so the set never holds
// two entries where one is an ancestor of the other.
type RepositorySet struct {
	git   *Git
	roots map[string]struct{}
}

// NewRepositorySet returns an empty set backed by g for root resolution.
func NewRepositorySet(g *Git) *RepositorySet {
	return &RepositorySet{git: g, roots: make(map[string]struct{})}
}

// InsertIfRepo resolves path to its repository root and inserts it. Reports
// whether an insertion occurred: false when the path is not inside a
// repository, does not exist, or its root is already a member.
func (s *RepositorySet) InsertIfRepo(path string) bool {
	root, ok := s.git.RepoRoot(path)
	if !ok {
		return false
	}
	if _, seen := s.roots[root]; seen {
		return false
	}
	s.roots[root] = struct{}{}
	return true
}

// GlobInsert expands pattern against the filesystem and inserts every match
// that lies inside a repository. Matches that are descendants of the most
// recently resolved root skip the root-resolution call; InsertIfRepo would
// reach the same root anyway, so the skip only saves subprocesses.
func (s *RepositorySet) GlobInsert(pattern string) error {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return err
	}

	var lastRoot string
	for _, match := range matches {
		if lastRoot != "" && isDescendant(lastRoot, match) {
			continue
		}
		if root, ok := s.git.RepoRoot(match); ok {
			s.roots[root] = struct{}{}
			lastRoot = root
		}
	}
	return nil
}

func isDescendant(root, path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// List returns the member roots, sorted for deterministic iteration.
func (s *RepositorySet) List() []string {
	roots := make([]string, 0, len(s.roots))
	for root := range s.roots {
		roots = append(roots, root)
	}
	sort.Strings(roots)
	return roots
}

// Len returns the number of member roots.
func (s *RepositorySet) Len() int {
	return len(s.roots)
}
