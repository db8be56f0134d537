package config

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/bmatcuk/doublestar/v4"

	hatcherrors "github.com/warrenburton/Hatch/internal/errors"
)

// Validator validates configuration and sets smart defaults
type Validator struct{}

// NewValidator creates a new configuration validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates configuration and applies smart defaults.
// Failures are reported as ConfigError naming the offending section.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if cfg == nil {
		return hatcherrors.NewConfigError("config", "", errors.New("configuration is nil"))
	}

	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return hatcherrors.NewConfigError("project", cfg.Project.Root, err)
	}

	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return hatcherrors.NewConfigError("index", "", err)
	}

	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return hatcherrors.NewConfigError("performance", "", err)
	}

	if err := v.validateSearchConfig(&cfg.Search); err != nil {
		return hatcherrors.NewConfigError("search", "", err)
	}

	if err := v.validateOutputConfig(&cfg.Output); err != nil {
		return hatcherrors.NewConfigError("output", cfg.Output.Format, err)
	}

	for _, section := range []struct {
		name     string
		patterns []string
	}{{"include", cfg.Include}, {"exclude", cfg.Exclude}} {
		for _, p := range section.patterns {
			if !doublestar.ValidatePattern(p) {
				return hatcherrors.NewConfigError(section.name, p, doublestar.ErrBadPattern)
			}
		}
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.MaxFileSize <= 0 {
		return fmt.Errorf("MaxFileSize must be positive, got %d", index.MaxFileSize)
	}

	if index.MaxFileSize > 100*1024*1024 {
		return fmt.Errorf("MaxFileSize should not exceed 100MB, got %d", index.MaxFileSize)
	}

	if index.WatchDebounceMs < 0 {
		return fmt.Errorf("WatchDebounceMs cannot be negative, got %d", index.WatchDebounceMs)
	}

	if index.CacheEntries < 0 {
		return fmt.Errorf("CacheEntries cannot be negative, got %d", index.CacheEntries)
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	// 0 means auto-detect
	if perf.ParallelFileWorkers < 0 {
		return fmt.Errorf("ParallelFileWorkers cannot be negative, got %d", perf.ParallelFileWorkers)
	}
	return nil
}

func (v *Validator) validateSearchConfig(search *Search) error {
	if search.MaxResults < 0 {
		return fmt.Errorf("MaxResults cannot be negative, got %d", search.MaxResults)
	}

	if search.FuzzyThreshold < 0 || search.FuzzyThreshold > 1 {
		return fmt.Errorf("FuzzyThreshold must be between 0 and 1, got %g", search.FuzzyThreshold)
	}
	return nil
}

var outputFormats = map[string]bool{"": true, "text": true, "json": true, "yaml": true}

func (v *Validator) validateOutputConfig(out *Output) error {
	if !outputFormats[out.Format] {
		return fmt.Errorf("unknown output format %q (want text, json or yaml)", out.Format)
	}
	return nil
}

// setSmartDefaults fills zero values that mean "pick for me".
func (v *Validator) setSmartDefaults(cfg *Config) {
	// cores-1 leaves one core for the OS, minimum of 1
	if cfg.Performance.ParallelFileWorkers == 0 {
		cfg.Performance.ParallelFileWorkers = max(1, runtime.NumCPU()-1)
	}

	if cfg.Search.MaxResults == 0 {
		cfg.Search.MaxResults = DefaultMaxResults
	}

	if cfg.Output.Format == "" {
		cfg.Output.Format = "text"
	}

	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.swift"}
	}
}

// ValidateConfig is a convenience function for quick validation
func ValidateConfig(cfg *Config) error {
	return NewValidator().ValidateAndSetDefaults(cfg)
}
