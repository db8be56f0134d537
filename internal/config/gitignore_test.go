package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreParser_BasicPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		path     string
		isDir    bool
		expected bool
	}{
		{"basename anywhere", []string{"*.log"}, "a/b/debug.log", false, true},
		{"basename at root", []string{"*.log"}, "debug.log", false, true},
		{"no match", []string{"*.log"}, "main.swift", false, false},
		{"directory rule on dir", []string{"build/"}, "build", true, true},
		{"directory rule skips file", []string{"build/"}, "build", false, false},
		{"directory rule covers contents", []string{"build/"}, "build/out.swift", false, true},
		{"nested directory rule", []string{"Generated/"}, "App/Generated/Models.swift", false, true},
		{"anchored", []string{"/Secrets.swift"}, "Secrets.swift", false, true},
		{"anchored not nested", []string{"/Secrets.swift"}, "App/Secrets.swift", false, false},
		{"path with slash anchored", []string{"App/Gen"}, "App/Gen", true, true},
		{"path with slash not nested", []string{"App/Gen"}, "X/App/Gen", true, false},
		{"double star", []string{"**/Fixtures/*.swift"}, "Tests/Fixtures/A.swift", false, true},
		{"comment ignored", []string{"# *.swift"}, "A.swift", false, false},
		{"blank ignored", []string{"", "   "}, "A.swift", false, false},
		{"escaped hash", []string{`\#notes`}, "#notes", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gp := NewGitignoreParser()
			for _, p := range tt.patterns {
				gp.AddPattern(p)
			}
			assert.Equal(t, tt.expected, gp.ShouldIgnore(tt.path, tt.isDir))
		})
	}
}

func TestGitignoreParser_NegationPriority(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("*.swift")
	gp.AddPattern("!Keep.swift")

	assert.True(t, gp.ShouldIgnore("Drop.swift", false))
	assert.False(t, gp.ShouldIgnore("Keep.swift", false))

	// last match wins
	gp.AddPattern("Keep.swift")
	assert.True(t, gp.ShouldIgnore("Keep.swift", false))
}

func TestGitignoreParser_NoReincludeBelowIgnoredDir(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("Vendor/")
	gp.AddPattern("!Vendor/Keep.swift")
	assert.True(t, gp.ShouldIgnore("Vendor/Keep.swift", false))
}

func TestGitignoreParser_EdgeCases(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("/")
	gp.AddPattern("!")
	assert.Empty(t, gp.Patterns())
	assert.False(t, gp.ShouldIgnore("", false))
	assert.False(t, gp.ShouldIgnore(".", true))
}

func TestGitignoreParser_LoadGitignore(t *testing.T) {
	root := t.TempDir()
	gp := NewGitignoreParser()
	require.NoError(t, gp.LoadGitignore(root), "missing file is fine")
	assert.Empty(t, gp.Patterns())

	writeFile(t, root, ".gitignore", "# deps\n.build/\n*.xcuserstate\r\n")
	require.NoError(t, gp.LoadGitignore(root))
	require.Len(t, gp.Patterns(), 2)
	assert.True(t, gp.Patterns()[0].Directory)
	assert.True(t, gp.ShouldIgnore("App.xcodeproj/me.xcuserstate", false))
}

func TestGitignoreParser_GetExclusionPatterns(t *testing.T) {
	gp := NewGitignoreParser()
	gp.AddPattern("build/")
	gp.AddPattern("*.log")
	gp.AddPattern("/Local")
	gp.AddPattern("!keep.log")

	assert.Equal(t, []string{
		"**/build/**",
		"**/*.log", "**/*.log/**",
		"Local", "Local/**",
	}, gp.GetExclusionPatterns())
}
