package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/version"
)

// loadConfigWithOverrides loads configuration and applies CLI flag overrides.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	rootFlag := c.String("root")

	cfg, err := config.LoadWithRoot(configPath, rootFlag)
	if err != nil {
		if configPath == "" {
			configPath = "project defaults"
		}
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = config.DeduplicatePatterns(append(cfg.Exclude, excludeFlags...))
	}
	if rootFlag != "" {
		absRoot, err := filepath.Abs(rootFlag)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve root path %q: %w", rootFlag, err)
		}
		cfg.Project.Root = absRoot
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// signalContext is canceled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func newApp(stdout, stderr io.Writer, stdin io.Reader) *cli.App {
	return &cli.App{
		Name:                   "hatch",
		Usage:                  "Symbol outlines for Swift sources",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Writer:                 stdout,
		ErrWriter:              stderr,
		Reader:                 stdin,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path (default: .hatch.kdl or .hatch.toml in the project root)",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory (overrides config)",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Include files matching glob patterns (e.g., --include 'Sources/**/*.swift')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Exclude files matching glob patterns (e.g., --exclude '**/Generated/**')",
			},
			&cli.StringFlag{
				Name:    "debug",
				EnvVars: []string{"HATCH_DEBUG"},
				Usage:   "Trace components to stderr: all, or a list of parse,outline,index,watch,mcp",
			},
		},
		Before: func(c *cli.Context) error {
			if !c.IsSet("debug") {
				return nil
			}
			if err := debug.Enable(c.String("debug")); err != nil {
				return err
			}
			debug.SetDebugOutput(c.App.ErrWriter)
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "outline",
				Aliases:   []string{"o"},
				Usage:     "Print the symbol outline of Swift files (all project files when none are given, - for stdin)",
				ArgsUsage: "[files...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
					&cli.BoolFlag{
						Name:  "yaml",
						Usage: "Output as YAML",
					},
					&cli.BoolFlag{
						Name:    "flat",
						Aliases: []string{"f"},
						Usage:   "List symbols depth-first instead of as a tree",
					},
					&cli.BoolFlag{
						Name:    "tree",
						Aliases: []string{"t"},
						Usage:   "Draw the outline as a branch tree",
					},
					&cli.BoolFlag{
						Name:  "compact",
						Usage: "One line per top-level symbol with its member names",
					},
					&cli.BoolFlag{
						Name:  "lines",
						Usage: "Show start lines in tree output",
					},
					&cli.IntFlag{
						Name:  "depth",
						Usage: "Levels drawn in tree output (0 = unlimited)",
					},
					&cli.BoolFlag{
						Name:  "no-comments",
						Usage: "Omit leading comments",
					},
					&cli.StringFlag{
						Name:  "name",
						Usage: "Logical file name for source read from stdin",
						Value: "stdin.swift",
					},
				},
				Action: outlineCommand,
			},
			{
				Name:      "find",
				Aliases:   []string{"f"},
				Usage:     "Find symbols by name across the project",
				ArgsUsage: "<query>",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "kind",
						Aliases: []string{"k"},
						Usage:   "Restrict to one symbol kind (class, struct, function, ...)",
					},
					&cli.IntFlag{
						Name:    "max",
						Aliases: []string{"m"},
						Usage:   "Maximum results (0 uses the configured limit)",
					},
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: findCommand,
			},
			{
				Name:  "stats",
				Usage: "Show outline statistics for the project",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "json",
						Aliases: []string{"j"},
						Usage:   "Output as JSON",
					},
				},
				Action: statsCommand,
			},
			{
				Name:   "watch",
				Usage:  "Re-outline Swift files as they change",
				Action: watchCommand,
			},
			{
				Name:   "mcp",
				Usage:  "Start MCP (Model Context Protocol) server with stdio transport",
				Action: mcpCommand,
			},
			{
				Name:  "config",
				Usage: "Configuration management commands",
				Subcommands: []*cli.Command{
					{
						Name:    "init",
						Aliases: []string{"i"},
						Usage:   "Write a starter configuration file",
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "format",
								Aliases: []string{"f"},
								Usage:   "Output format: kdl, toml",
								Value:   "kdl",
							},
							&cli.StringFlag{
								Name:    "output",
								Aliases: []string{"o"},
								Usage:   "Output file path (default: .hatch.kdl or .hatch.toml in the project root)",
							},
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing configuration file",
							},
						},
						Action: configInitCommand,
					},
					{
						Name:    "show",
						Aliases: []string{"s"},
						Usage:   "Show the effective configuration as TOML",
						Action:  configShowCommand,
					},
					{
						Name:    "validate",
						Aliases: []string{"v"},
						Usage:   "Validate the configuration",
						Action:  configValidateCommand,
					},
				},
			},
		},
	}
}

func main() {
	app := newApp(os.Stdout, os.Stderr, os.Stdin)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
