package config

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// GitignoreParser handles parsing and matching .gitignore files
type GitignoreParser struct {
	patterns []GitignorePattern
}

// GitignorePattern is one rule of a .gitignore file.
type GitignorePattern struct {
	Pattern   string
	Negate    bool
	Directory bool // trailing slash: matches directories only
	Absolute  bool // contains a slash: anchored at the root

	glob string
}

// NewGitignoreParser creates a new gitignore parser
func NewGitignoreParser() *GitignoreParser {
	return &GitignoreParser{}
}

// LoadGitignore reads rootPath/.gitignore. A missing file is not an error.
func (gp *GitignoreParser) LoadGitignore(rootPath string) error {
	file, err := os.Open(filepath.Join(rootPath, ".gitignore"))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		gp.AddPattern(scanner.Text())
	}
	return scanner.Err()
}

// AddPattern parses one .gitignore line. Blank lines and comments are ignored.
func (gp *GitignoreParser) AddPattern(line string) {
	line = strings.TrimRight(line, " \t\r")
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	var p GitignorePattern
	if strings.HasPrefix(line, "!") {
		p.Negate = true
		line = line[1:]
	} else if strings.HasPrefix(line, `\!`) || strings.HasPrefix(line, `\#`) {
		line = line[1:]
	}
	if strings.HasSuffix(line, "/") {
		p.Directory = true
		line = strings.TrimSuffix(line, "/")
	}
	if strings.Contains(line, "/") {
		p.Absolute = true
		line = strings.TrimPrefix(line, "/")
	}
	if line == "" {
		return
	}

	p.Pattern = line
	if p.Absolute {
		p.glob = line
	} else {
		p.glob = "**/" + line
	}
	if !doublestar.ValidatePattern(p.glob) {
		return
	}
	gp.patterns = append(gp.patterns, p)
}

// Patterns returns the parsed rules in file order.
func (gp *GitignoreParser) Patterns() []GitignorePattern {
	return gp.patterns
}

// ShouldIgnore reports whether the slash-separated path, relative to the
// root, is ignored. The last matching rule wins, and nothing below an ignored
// directory can be re-included.
func (gp *GitignoreParser) ShouldIgnore(path string, isDir bool) bool {
	path = strings.Trim(filepath.ToSlash(path), "/")
	if path == "" || path == "." {
		return false
	}

	parts := strings.Split(path, "/")
	for i := 1; i < len(parts); i++ {
		if gp.match(strings.Join(parts[:i], "/"), true) {
			return true
		}
	}
	return gp.match(path, isDir)
}

func (gp *GitignoreParser) match(path string, isDir bool) bool {
	ignored := false
	for _, p := range gp.patterns {
		if p.Directory && !isDir {
			continue
		}
		if ok, _ := doublestar.Match(p.glob, path); ok {
			ignored = !p.Negate
		}
	}
	return ignored
}

// GetExclusionPatterns converts the non-negated rules into exclusion globs.
// Negations cannot be expressed as exclusions; ShouldIgnore honors them.
func (gp *GitignoreParser) GetExclusionPatterns() []string {
	var exclusions []string
	for _, p := range gp.patterns {
		if p.Negate {
			continue
		}
		if !p.Directory {
			exclusions = append(exclusions, p.glob)
		}
		exclusions = append(exclusions, p.glob+"/**")
	}
	return exclusions
}
