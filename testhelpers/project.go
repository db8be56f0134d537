package testhelpers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warrenburton/Hatch/internal/config"
)

// Project is a throwaway source tree under t.TempDir.
type Project struct {
	t    *testing.T
	Root string
}

// NewProject creates an empty project directory.
func NewProject(t *testing.T) *Project {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	return &Project{t: t, Root: root}
}

// File writes content to the slash-separated relative path, creating parent
// directories.
func (p *Project) File(rel, content string) *Project {
	p.t.Helper()
	path := p.Path(rel)
	require.NoError(p.t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(p.t, os.WriteFile(path, []byte(content), 0o644))
	return p
}

// Gitignore writes a root .gitignore with one pattern per line.
func (p *Project) Gitignore(patterns ...string) *Project {
	return p.File(".gitignore", strings.Join(patterns, "\n")+"\n")
}

// Remove deletes the relative path.
func (p *Project) Remove(rel string) {
	p.t.Helper()
	require.NoError(p.t, os.RemoveAll(p.Path(rel)))
}

// Path returns the absolute path of rel.
func (p *Project) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// Config returns TestConfig for the project root.
func (p *Project) Config() *config.Config {
	return TestConfig(p.Root)
}
