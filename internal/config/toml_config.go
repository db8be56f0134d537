package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML loads .hatch.toml from projectRoot. A missing file yields (nil, nil).
func LoadTOML(projectRoot string) (*Config, error) {
	path := filepath.Join(projectRoot, TOMLFileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", TOMLFileName, err)
	}

	cfg, err := parseTOML(content)
	if err != nil {
		return nil, err
	}
	resolveRoot(cfg, projectRoot)
	return cfg, nil
}

// parseTOML decodes over the defaults, so absent keys keep their default value.
func parseTOML(content []byte) (*Config, error) {
	cfg := Default("")
	cfg.Project = Project{}
	if err := toml.Unmarshal(content, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML config: %w", err)
	}
	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.swift"}
	}
	return cfg, nil
}

// EncodeTOML renders cfg in the .hatch.toml format.
func EncodeTOML(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}
