package config

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const (
	KDLFileName  = ".hatch.kdl"
	TOMLFileName = ".hatch.toml"

	DefaultMaxFileSize     = 4 * 1024 * 1024
	DefaultWatchDebounceMs = 300
	DefaultMaxResults      = 50
	DefaultFuzzyThreshold  = 0.8
	DefaultCacheEntries    = 2048
)

type Config struct {
	Version     int         `toml:"version"`
	Project     Project     `toml:"project"`
	Index       Index       `toml:"index"`
	Performance Performance `toml:"performance"`
	Search      Search      `toml:"search"`
	Output      Output      `toml:"output"`
	Include     []string    `toml:"include"`
	Exclude     []string    `toml:"exclude"`
}

type Project struct {
	Root string `toml:"root"`
	Name string `toml:"name"`
}

type Index struct {
	MaxFileSize      int64 `toml:"max_file_size"`
	FollowSymlinks   bool  `toml:"follow_symlinks"`
	RespectGitignore bool  `toml:"respect_gitignore"`
	WatchDebounceMs  int   `toml:"watch_debounce_ms"`
	CacheEntries     int   `toml:"cache_entries"` // 0 selects DefaultCacheEntries
}

type Performance struct {
	ParallelFileWorkers int `toml:"parallel_file_workers"` // 0 = auto-detect (NumCPU-1)
}

type Search struct {
	MaxResults     int     `toml:"max_results"`
	FuzzyThreshold float64 `toml:"fuzzy_threshold"` // JaroWinkler similarity, 0..1
	EnableFuzzy    bool    `toml:"enable_fuzzy"`
	Stemming       bool    `toml:"stemming"`
}

type Output struct {
	Format          string `toml:"format"` // text, json, yaml
	Flat            bool   `toml:"flat"`
	IncludeComments bool   `toml:"include_comments"`
}

// Default returns the configuration used when no config file exists.
func Default(root string) *Config {
	return &Config{
		Version: 1,
		Project: Project{
			Root: root,
			Name: filepath.Base(root),
		},
		Index: Index{
			MaxFileSize:      DefaultMaxFileSize,
			RespectGitignore: true,
			WatchDebounceMs:  DefaultWatchDebounceMs,
			CacheEntries:     DefaultCacheEntries,
		},
		Performance: Performance{
			ParallelFileWorkers: 0,
		},
		Search: Search{
			MaxResults:     DefaultMaxResults,
			FuzzyThreshold: DefaultFuzzyThreshold,
			EnableFuzzy:    true,
			Stemming:       true,
		},
		Output: Output{
			Format:          "text",
			IncludeComments: true,
		},
		Include: []string{"**/*.swift"},
		Exclude: defaultExclusions(),
	}
}

func defaultExclusions() []string {
	return []string{
		"**/.git/**",
		"**/.build/**",       // SwiftPM
		"**/.swiftpm/**",     // SwiftPM workspace state
		"**/DerivedData/**",  // Xcode
		"**/Pods/**",         // CocoaPods
		"**/Carthage/**",     // Carthage
		"**/*.xcodeproj/**",  // project bundles carry no sources
		"**/*.xcworkspace/**",
		"**/*.xcarchive/**",
		"**/*.dSYM/**",
		"**/*.app/**",
		"**/*.framework/**",
		"**/node_modules/**",
		"**/vendor/**",
	}
}

// Load reads the configuration for the current directory.
func Load(path string) (*Config, error) {
	return LoadWithRoot(path, "")
}

// LoadWithRoot resolves configuration in this order: an explicit path, then
// .hatch.kdl or .hatch.toml in rootDir, then defaults. A ~/.hatch.kdl acts as a
// base whose exclusions are kept under a project config.
func LoadWithRoot(path string, rootDir string) (*Config, error) {
	searchDir := "."
	if rootDir != "" {
		searchDir = rootDir
	}
	absDir, err := filepath.Abs(searchDir)
	if err != nil {
		absDir = searchDir
	}

	if path != "" {
		cfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		if rootDir != "" {
			cfg.Project.Root = absDir
		}
		return finish(cfg)
	}

	var baseConfig *Config
	if homeDir, err := os.UserHomeDir(); err == nil && homeDir != absDir {
		baseConfig = loadGlobalConfig(homeDir)
	}

	projectConfig, err := LoadKDL(absDir)
	if err != nil {
		return nil, err
	}
	if projectConfig == nil {
		if projectConfig, err = LoadTOML(absDir); err != nil {
			return nil, err
		}
	}

	switch {
	case baseConfig != nil && projectConfig != nil:
		return finish(mergeConfigs(baseConfig, projectConfig))
	case projectConfig != nil:
		return finish(projectConfig)
	case baseConfig != nil:
		baseConfig.Project.Root = absDir
		baseConfig.Project.Name = filepath.Base(absDir)
		return finish(baseConfig)
	}
	return finish(Default(absDir))
}

// loadGlobalConfig reads ~/.hatch.kdl. A malformed global file never blocks a
// project: it is reported and skipped, and nil is returned.
func loadGlobalConfig(homeDir string) *Config {
	cfg, err := LoadKDL(homeDir)
	if err != nil {
		log.Printf("WARNING: ignoring %s: %v", filepath.Join(homeDir, KDLFileName), err)
		return nil
	}
	return cfg
}

// LoadFile reads a single config file, choosing the format by extension.
func LoadFile(path string) (*Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	var cfg *Config
	if filepath.Ext(path) == ".toml" {
		cfg, err = parseTOML(content)
	} else {
		cfg, err = parseKDL(string(content))
	}
	if err != nil {
		return nil, err
	}
	resolveRoot(cfg, dir)
	return cfg, nil
}

func finish(cfg *Config) (*Config, error) {
	cfg.EnrichExclusionsWithBuildArtifacts()
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveRoot makes the project root absolute, relative to the directory that
// holds the config file.
func resolveRoot(cfg *Config, configDir string) {
	if cfg.Project.Root == "" {
		cfg.Project.Root = configDir
	} else if !filepath.IsAbs(cfg.Project.Root) {
		cfg.Project.Root = filepath.Join(configDir, cfg.Project.Root)
	}
	if abs, err := filepath.Abs(cfg.Project.Root); err == nil {
		cfg.Project.Root = abs
	}
	cfg.Project.Root = filepath.Clean(cfg.Project.Root)
	if cfg.Project.Name == "" {
		cfg.Project.Name = filepath.Base(cfg.Project.Root)
	}
}

// mergeConfigs keeps the project config and adds the base exclusions to it.
func mergeConfigs(base, project *Config) *Config {
	merged := *project
	merged.Exclude = DeduplicatePatterns(append(append([]string{}, base.Exclude...), project.Exclude...))
	if len(project.Include) == 0 && len(base.Include) > 0 {
		merged.Include = base.Include
	}
	return &merged
}

// DeduplicatePatterns removes repeated patterns, keeping first occurrences.
func DeduplicatePatterns(patterns []string) []string {
	seen := make(map[string]bool, len(patterns))
	out := make([]string, 0, len(patterns))
	for _, p := range patterns {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Workers returns the number of parallel outline workers to use.
func (c *Config) Workers() int {
	if c.Performance.ParallelFileWorkers > 0 {
		return c.Performance.ParallelFileWorkers
	}
	return max(1, runtime.NumCPU()-1)
}
