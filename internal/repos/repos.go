// Package repos discovers git repositories under the configured search roots.
package repos

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/0xsch1zo/celeris/internal/config"
)

// Search walks every configured search root and returns the paths of the git
// work trees it finds, home-relative where possible. Roots with no depth or
// excludes of their own inherit the global settings. Unless SearchSubdirs is
// set, a found repository is not descended into.
func Search(cfg *config.Config) ([]string, error) {
	var found []string
	for _, root := range cfg.SearchRoots {
		depth := root.Depth
		if depth == 0 {
			depth = cfg.Depth
		}

		repos, err := searchRoot(root.Path, depth, cfg.Excludes, root.Excludes, cfg.SearchSubdirs)
		if err != nil {
			return nil, err
		}
		found = append(found, repos...)
	}

	return shortenPaths(found), nil
}

func searchRoot(root string, depth int, globalExcludes, localExcludes []string, searchSubdirs bool) ([]string, error) {
	root = filepath.Clean(root)
	var repos []string

	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			// unreadable subtrees are skipped, not fatal
			if path == root {
				return err
			}
			return fs.SkipDir
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && (excluded(globalExcludes, path) || excluded(localExcludes, path)) {
			return fs.SkipDir
		}
		if pathDepth(root, path) > depth {
			return fs.SkipDir
		}

		if isRepo(path) {
			repos = append(repos, path)
			if !searchSubdirs {
				return fs.SkipDir
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// excluded matches absolute excludes against the full path and bare names
// against the directory name.
func excluded(excludes []string, path string) bool {
	for _, exclude := range excludes {
		if filepath.IsAbs(exclude) {
			if filepath.Clean(exclude) == path {
				return true
			}
		} else if exclude == filepath.Base(path) {
			return true
		}
	}
	return false
}

func pathDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}

// isRepo reports whether path is the top of a git work tree. A .git entry
// may be a directory or, for worktrees and submodules, a file.
func isRepo(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func shortenPaths(paths []string) []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return paths
	}

	shortened := make([]string, len(paths))
	for i, path := range paths {
		if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
			shortened[i] = filepath.Join("~", rel)
		} else {
			shortened[i] = path
		}
	}
	return shortened
}

// Repo pairs a discovered repository path with a unique short name.
type Repo struct {
	Name string
	Path string
}

// Dedup derives session names from repo paths. Names start as the base
// directory name; every member of a colliding group is prefixed with its
// next parent segment until all names are unique. Paths are assumed unique.
func Dedup(paths []string) []Repo {
	named := make([]Repo, len(paths))
	parents := make([]string, len(paths))
	maxRounds := 0
	for i, path := range paths {
		named[i] = Repo{Name: filepath.Base(path), Path: path}
		parents[i] = filepath.Dir(path)
		if segments := strings.Count(path, string(filepath.Separator)); segments > maxRounds {
			maxRounds = segments
		}
	}

	for range maxRounds {
		counts := make(map[string]int)
		for _, r := range named {
			counts[r.Name]++
		}

		unique := true
		for i, r := range named {
			if counts[r.Name] < 2 {
				continue
			}
			unique = false

			prefix := filepath.Base(parents[i])
			if parents[i] == filepath.Dir(parents[i]) {
				prefix = string(filepath.Separator)
			}
			named[i].Name = prefix + "/" + r.Name
			parents[i] = filepath.Dir(parents[i])
		}
		if unique {
			break
		}
	}
	return named
}

// Expand resolves a possibly home-relative path back to an absolute one.
func Expand(path string) string {
	if path == "~" || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}
