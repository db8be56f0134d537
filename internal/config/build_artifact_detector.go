package config

import (
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// BuildArtifactDetector finds Swift toolchain output directories from the
// project files present at the root.
type BuildArtifactDetector struct {
	projectRoot string
}

// NewBuildArtifactDetector creates a new build artifact detector
func NewBuildArtifactDetector(projectRoot string) *BuildArtifactDetector {
	return &BuildArtifactDetector{projectRoot: projectRoot}
}

// DetectOutputDirectories returns exclusion globs for the build systems in use.
func (bad *BuildArtifactDetector) DetectOutputDirectories() []string {
	if bad.projectRoot == "" {
		return nil
	}
	var patterns []string
	patterns = append(patterns, bad.detectSwiftPMOutputs()...)
	patterns = append(patterns, bad.detectXcodeOutputs()...)
	patterns = append(patterns, bad.detectDependencyManagers()...)
	return patterns
}

func (bad *BuildArtifactDetector) exists(name string) bool {
	_, err := os.Stat(filepath.Join(bad.projectRoot, name))
	return err == nil
}

// detectSwiftPMOutputs covers Package.swift projects.
func (bad *BuildArtifactDetector) detectSwiftPMOutputs() []string {
	if !bad.exists("Package.swift") {
		return nil
	}
	return []string{"**/.build/**", "**/.swiftpm/**"}
}

// detectXcodeOutputs covers projects with an .xcodeproj or .xcworkspace.
func (bad *BuildArtifactDetector) detectXcodeOutputs() []string {
	fsys := os.DirFS(bad.projectRoot)
	projects, _ := doublestar.Glob(fsys, "*.{xcodeproj,xcworkspace}")
	if len(projects) == 0 {
		return nil
	}
	return []string{"**/DerivedData/**", "**/build/**", "**/*.xcodeproj/**", "**/*.xcworkspace/**"}
}

func (bad *BuildArtifactDetector) detectDependencyManagers() []string {
	var patterns []string
	if bad.exists("Podfile") {
		patterns = append(patterns, "**/Pods/**")
	}
	if bad.exists("Cartfile") {
		patterns = append(patterns, "**/Carthage/**")
	}
	return patterns
}

// EnrichExclusionsWithBuildArtifacts appends detected build outputs and, when
// enabled, the root .gitignore rules to the exclusion list.
func (c *Config) EnrichExclusionsWithBuildArtifacts() {
	extra := NewBuildArtifactDetector(c.Project.Root).DetectOutputDirectories()
	if c.Index.RespectGitignore && c.Project.Root != "" {
		gp := NewGitignoreParser()
		if err := gp.LoadGitignore(c.Project.Root); err == nil {
			extra = append(extra, gp.GetExclusionPatterns()...)
		}
	}
	if len(extra) == 0 {
		return
	}
	c.Exclude = DeduplicatePatterns(append(c.Exclude, extra...))
}
