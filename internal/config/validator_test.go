package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	hatcherrors "github.com/warrenburton/Hatch/internal/errors"
)

func TestValidatorRejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		section string
	}{
		{"empty root", func(c *Config) { c.Project.Root = "" }, "project"},
		{"zero file size", func(c *Config) { c.Index.MaxFileSize = 0 }, "index"},
		{"huge file size", func(c *Config) { c.Index.MaxFileSize = 200 * 1024 * 1024 }, "index"},
		{"negative debounce", func(c *Config) { c.Index.WatchDebounceMs = -1 }, "index"},
		{"negative cache", func(c *Config) { c.Index.CacheEntries = -1 }, "index"},
		{"negative workers", func(c *Config) { c.Performance.ParallelFileWorkers = -2 }, "performance"},
		{"negative results", func(c *Config) { c.Search.MaxResults = -1 }, "search"},
		{"threshold above one", func(c *Config) { c.Search.FuzzyThreshold = 1.5 }, "search"},
		{"unknown format", func(c *Config) { c.Output.Format = "xml" }, "output"},
		{"bad include", func(c *Config) { c.Include = []string{"[abc"} }, "include"},
		{"bad exclude", func(c *Config) { c.Exclude = []string{"{a,b"} }, "exclude"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default("/tmp/project")
			tt.mutate(cfg)

			err := ValidateConfig(cfg)
			var cfgErr *hatcherrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.section, cfgErr.Field)
		})
	}
}

func TestValidatorNil(t *testing.T) {
	assert.Error(t, NewValidator().ValidateAndSetDefaults(nil))
}

func TestValidatorSmartDefaults(t *testing.T) {
	cfg := Default("/tmp/project")
	cfg.Performance.ParallelFileWorkers = 0
	cfg.Search.MaxResults = 0
	cfg.Output.Format = ""
	cfg.Include = nil

	require.NoError(t, ValidateConfig(cfg))
	assert.GreaterOrEqual(t, cfg.Performance.ParallelFileWorkers, 1)
	assert.Equal(t, DefaultMaxResults, cfg.Search.MaxResults)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, []string{"**/*.swift"}, cfg.Include)
}
