package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/warrenburton/Hatch/internal/config"
)

func configInitCommand(c *cli.Context) error {
	format := c.String("format")
	dir := c.String("root")
	if dir == "" {
		dir = "."
	}

	var content []byte
	var fileName string
	switch format {
	case "kdl":
		content = []byte(config.DefaultKDL)
		fileName = config.KDLFileName
	case "toml":
		cfg := config.Default(".")
		cfg.Project.Name = ""
		data, err := config.EncodeTOML(cfg)
		if err != nil {
			return fmt.Errorf("failed to generate config: %v", err)
		}
		content = data
		fileName = config.TOMLFileName
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	output := c.String("output")
	if output == "" {
		output = filepath.Join(dir, fileName)
	}
	if !c.Bool("force") {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("configuration file %s already exists (use --force to overwrite)", output)
		}
	}
	if err := os.WriteFile(output, content, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Fprintf(c.App.Writer, "Created %s\n", output)
	return nil
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	data, err := config.EncodeTOML(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %v", err)
	}
	_, err = c.App.Writer.Write(data)
	return err
}

func configValidateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "Configuration validation failed: %v\n", err)
		return err
	}

	var warnings []string
	if len(cfg.Include) == 0 {
		warnings = append(warnings, "no include patterns, no files will be outlined")
	}
	if cfg.Index.MaxFileSize < 64*1024 {
		warnings = append(warnings, "max_file_size is below 64KB, large sources will be skipped")
	}
	if !cfg.Search.EnableFuzzy && !cfg.Search.Stemming {
		warnings = append(warnings, "fuzzy matching and stemming are both off, find only matches names literally")
	}

	source := c.String("config")
	if source == "" {
		source = "project defaults"
	}
	fmt.Fprintf(c.App.Writer, "Configuration is valid\n")
	fmt.Fprintf(c.App.Writer, "Source: %s\n", source)
	fmt.Fprintf(c.App.Writer, "Root: %s\n", cfg.Project.Root)
	fmt.Fprintf(c.App.Writer, "Include: %v\n", cfg.Include)
	fmt.Fprintf(c.App.Writer, "Exclude: %d patterns\n", len(cfg.Exclude))
	fmt.Fprintf(c.App.Writer, "Workers: %d\n", cfg.Workers())

	if len(warnings) > 0 {
		fmt.Fprintf(c.App.Writer, "\nWarnings:\n")
		for _, w := range warnings {
			fmt.Fprintf(c.App.Writer, "  - %s\n", w)
		}
	}
	return nil
}
