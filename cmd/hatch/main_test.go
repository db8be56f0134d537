package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/testhelpers"
)

type runResult struct {
	stdout string
	stderr string
	err    error
}

func run(t *testing.T, stdin string, args ...string) runResult {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := newApp(&stdout, &stderr, strings.NewReader(stdin))
	err := app.Run(append([]string{"hatch"}, args...))
	return runResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func setupProject(t *testing.T) *testhelpers.Project {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	return testhelpers.NewProject(t).
		File("Sources/User.swift", "/// A user.\nstruct User {\n    let name: String\n    func greet() {}\n}\n").
		File("Sources/UserStore.swift", "import Foundation\n\nclass UserStore {\n    var users: [User] = []\n}\n").
		File("README.md", "# not swift\n")
}

func TestOutlineJSON(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "outline", "--json", p.Path("Sources/User.swift"))
	require.NoError(t, res.err)

	var views []symbols.View
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, symbols.KindStruct, views[0].Kind)
	assert.Equal(t, "User", views[0].Name)
	assert.Equal(t, "Sources/User.swift", views[0].File)
	require.Len(t, views[0].Children, 2)
	assert.Equal(t, "name", views[0].Children[0].Name)
	assert.Equal(t, "greet", views[0].Children[1].Name)
}

func TestOutlineFlatYAML(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "outline", "--yaml", "--flat", p.Path("Sources/User.swift"))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "kind: struct")
	assert.Contains(t, res.stdout, "name: greet")
	assert.NotContains(t, res.stdout, "children:")
}

func TestOutlineProjectText(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "outline")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "struct User")
	assert.Contains(t, res.stdout, "class UserStore")
	assert.Contains(t, res.stdout, "import Foundation")
	assert.NotContains(t, res.stdout, "README")
}

func TestOutlineStdin(t *testing.T) {
	p := setupProject(t)

	res := run(t, "enum Suit { case hearts, spades }", "--root", p.Root, "outline", "--json", "--name", "Suit.swift", "-")
	require.NoError(t, res.err)

	var views []symbols.View
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &views))
	require.Len(t, views, 1)
	assert.Equal(t, symbols.KindEnum, views[0].Kind)
	assert.Equal(t, "Suit.swift", views[0].File)
}

func TestOutlineMissingFile(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "outline", "--json", p.Path("Sources/User.swift"), p.Path("Sources/Missing.swift"))
	require.Error(t, res.err)
	assert.Contains(t, res.stderr, "Missing.swift")

	// the readable file is still printed
	var views []symbols.View
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &views))
	assert.Len(t, views, 1)
}

func TestOutlineConflictingFormats(t *testing.T) {
	p := setupProject(t)
	res := run(t, "", "--root", p.Root, "outline", "--json", "--yaml")
	assert.Error(t, res.err)
}

func TestFind(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "find", "--json", "User")
	require.NoError(t, res.err)

	var results []findResult
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &results))
	require.NotEmpty(t, results)
	assert.Equal(t, "User", results[0].Name)
	assert.Equal(t, "exact", results[0].Match)

	res = run(t, "", "--root", p.Root, "find", "--kind", "class", "User")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "UserStore")
	assert.NotContains(t, res.stdout, "struct")
}

func TestFindErrors(t *testing.T) {
	p := setupProject(t)

	assert.Error(t, run(t, "", "--root", p.Root, "find").err)
	assert.Error(t, run(t, "", "--root", p.Root, "find", "--kind", "widget", "User").err)

	res := run(t, "", "--root", p.Root, "find", "Zebra")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "No symbols match")
}

func TestStatsJSON(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "stats", "--json")
	require.NoError(t, res.err)

	var stats struct {
		Files        int            `json:"files"`
		TotalSymbols int            `json:"total_symbols"`
		ByKind       map[string]int `json:"by_kind"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &stats))
	assert.Equal(t, 2, stats.Files)
	assert.Equal(t, 6, stats.TotalSymbols)
	assert.Equal(t, 1, stats.ByKind["import"])
}

func TestIncludeOverride(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "--include", "Sources/UserStore.swift", "stats", "--json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"files": 1`)

	res = run(t, "", "--root", p.Root, "--exclude", "Sources/**", "stats", "--json")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, `"files": 0`)
}

func TestConfigInitValidateShow(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "config", "init")
	require.NoError(t, res.err)
	assert.FileExists(t, p.Path(config.KDLFileName))

	res = run(t, "", "--root", p.Root, "config", "init")
	assert.Error(t, res.err, "init must not overwrite without --force")

	res = run(t, "", "--root", p.Root, "config", "init", "--force")
	require.NoError(t, res.err)

	res = run(t, "", "--root", p.Root, "config", "validate")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Configuration is valid")
	assert.Contains(t, res.stdout, p.Root)

	res = run(t, "", "--root", p.Root, "config", "show")
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "max_results = 50")
	assert.Contains(t, res.stdout, "[search]")
}

func TestConfigInitTOML(t *testing.T) {
	p := setupProject(t)

	out := filepath.Join(p.Root, "custom.toml")
	res := run(t, "", "--root", p.Root, "config", "init", "--format", "toml", "--output", out)
	require.NoError(t, res.err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "include_comments = true")

	res = run(t, "", "--config", out, "--root", p.Root, "config", "validate")
	require.NoError(t, res.err)

	assert.Error(t, run(t, "", "--root", p.Root, "config", "init", "--format", "ini").err)
}

func TestInvalidConfigRejected(t *testing.T) {
	p := setupProject(t)
	p.File(config.KDLFileName, "output {\n    format \"xml\"\n}\n")

	res := run(t, "", "--root", p.Root, "stats")
	assert.Error(t, res.err)
}

func TestOutlineTree(t *testing.T) {
	p := setupProject(t)

	res := run(t, "", "--root", p.Root, "outline", "--tree", "--lines", p.Path("Sources/User.swift"))
	require.NoError(t, res.err)
	assert.Contains(t, res.stdout, "Sources/User.swift (3 symbols)")
	assert.Contains(t, res.stdout, "└─ struct User [line 2]")
	assert.Contains(t, res.stdout, "├─ variable name: String")
	assert.Contains(t, res.stdout, "└─ function greet()")

	res = run(t, "", "--root", p.Root, "outline", "--compact", p.Path("Sources/User.swift"))
	require.NoError(t, res.err)
	assert.Equal(t, "Sources/User.swift: struct User { name, greet }\n", res.stdout)
}

func TestDebugFlag(t *testing.T) {
	p := setupProject(t)
	t.Cleanup(func() {
		_ = debug.Enable("")
		debug.SetDebugOutput(nil)
	})

	res := run(t, "", "--debug", "index", "--root", p.Root, "stats")
	require.NoError(t, res.err)
	assert.Contains(t, res.stderr, "[DEBUG:INDEX]")
	assert.NotContains(t, res.stderr, "[DEBUG:PARSE]")

	assert.Error(t, run(t, "", "--debug", "lexer", "--root", p.Root, "stats").err)
}
