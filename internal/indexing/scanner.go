// Package indexing finds Swift sources under a project root and outlines them.
package indexing

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/debug"
)

// Scanner selects project files by include/exclude globs, .gitignore rules and
// the size limit. Patterns match slash-separated paths relative to the root.
type Scanner struct {
	config          *config.Config
	root            string
	gitignoreParser *config.GitignoreParser
}

// NewScanner prepares a scanner for cfg.Project.Root. The root .gitignore is
// loaded when cfg.Index.RespectGitignore is set.
func NewScanner(cfg *config.Config) *Scanner {
	s := &Scanner{config: cfg, root: filepath.Clean(cfg.Project.Root)}
	if cfg.Index.RespectGitignore {
		gp := config.NewGitignoreParser()
		if err := gp.LoadGitignore(s.root); err != nil {
			debug.LogIndexing("gitignore not loaded: %v\n", err)
		} else {
			s.gitignoreParser = gp
		}
	}
	return s
}

// Root returns the absolute project root.
func (s *Scanner) Root() string { return s.root }

// Scan walks the root and returns the matching files as absolute paths in
// lexical order.
func (s *Scanner) Scan(ctx context.Context) ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == s.root {
				return err
			}
			debug.LogIndexing("scan: skipping %s: %v\n", path, err)
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		rel := s.Rel(path)
		if d.IsDir() {
			if path != s.root && s.ExcludedDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}

		info, err := s.fileInfo(path, d)
		if err != nil || info == nil {
			return nil
		}
		if s.Matches(rel) && info.Size() <= s.config.Index.MaxFileSize {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	debug.LogIndexing("scan: %d files under %s\n", len(files), s.root)
	return files, nil
}

// fileInfo returns nil for entries that are not regular files. Symlinks are
// resolved only when the configuration asks for it.
func (s *Scanner) fileInfo(path string, d fs.DirEntry) (fs.FileInfo, error) {
	if d.Type()&fs.ModeSymlink != 0 {
		if !s.config.Index.FollowSymlinks {
			return nil, nil
		}
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return nil, err
		}
		return info, nil
	}
	if !d.Type().IsRegular() {
		return nil, nil
	}
	return d.Info()
}

// Rel converts path to the slash-separated form used for matching.
func (s *Scanner) Rel(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(filepath.Clean(path))
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}

// Matches reports whether the relative file path is selected.
func (s *Scanner) Matches(rel string) bool {
	if strings.HasPrefix(rel, "../") {
		return false
	}
	if !matchAny(s.config.Include, rel) {
		return false
	}
	if matchAny(s.config.Exclude, rel) {
		return false
	}
	if s.gitignoreParser != nil && s.gitignoreParser.ShouldIgnore(rel, false) {
		return false
	}
	return true
}

// ExcludedDir reports whether the relative directory can be pruned.
func (s *Scanner) ExcludedDir(rel string) bool {
	for _, pattern := range s.config.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
		if dirPattern, found := strings.CutSuffix(pattern, "/**"); found {
			if ok, _ := doublestar.Match(dirPattern, rel); ok {
				return true
			}
		}
	}
	return s.gitignoreParser != nil && s.gitignoreParser.ShouldIgnore(rel, true)
}

func matchAny(patterns []string, rel string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}
