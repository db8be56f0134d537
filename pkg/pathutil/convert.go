// Package pathutil converts between the absolute paths used internally and
// the root-relative names shown to users and recorded in symbol ranges.
package pathutil

import (
	"path/filepath"
	"strings"
)

// ToRelative converts an absolute path to one relative to rootDir. Relative
// inputs, empty inputs and paths outside the root are returned unchanged.
//
// Examples:
//   - ToRelative("/src/App/Sources/Model.swift", "/src/App") → "Sources/Model.swift"
//   - ToRelative("/elsewhere/Model.swift", "/src/App") → "/elsewhere/Model.swift"
func ToRelative(absPath, rootDir string) string {
	if absPath == "" || rootDir == "" || !filepath.IsAbs(absPath) {
		return absPath
	}

	absPath = filepath.Clean(absPath)
	rel, err := filepath.Rel(filepath.Clean(rootDir), absPath)
	if err != nil || escapesRoot(rel) {
		return absPath
	}
	return rel
}

// DisplayName is ToRelative in slash-separated form.
func DisplayName(path, rootDir string) string {
	return filepath.ToSlash(ToRelative(path, rootDir))
}

// Within reports whether path lies inside rootDir or is rootDir itself.
func Within(path, rootDir string) bool {
	rel, err := filepath.Rel(filepath.Clean(rootDir), filepath.Clean(path))
	return err == nil && !escapesRoot(rel)
}

func escapesRoot(rel string) bool {
	return rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
