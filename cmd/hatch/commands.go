package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/display"
	"github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/metrics"
	"github.com/warrenburton/Hatch/internal/search"
	"github.com/warrenburton/Hatch/internal/symbols"
)

// outputFormat picks the encoding from the command flags, falling back to
// the configured default.
func outputFormat(c *cli.Context, cfg *config.Config) (symbols.Format, error) {
	switch {
	case c.Bool("json") && c.Bool("yaml"):
		return "", fmt.Errorf("--json and --yaml are mutually exclusive")
	case c.Bool("json"):
		return symbols.FormatJSON, nil
	case c.Bool("yaml"):
		return symbols.FormatYAML, nil
	}
	return symbols.ParseFormat(cfg.Output.Format)
}

func outlineCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	format, err := outputFormat(c, cfg)
	if err != nil {
		return err
	}
	flat := c.Bool("flat") || cfg.Output.Flat
	includeComments := cfg.Output.IncludeComments && !c.Bool("no-comments")

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	outliner := indexing.NewOutliner(cfg, cache.NewOutlineCache(cfg.Index.CacheEntries))

	var outlines []indexing.FileOutline
	switch args := c.Args().Slice(); {
	case len(args) == 1 && args[0] == "-":
		src, err := io.ReadAll(c.App.Reader)
		if err != nil {
			return errors.NewFileError("read", "stdin", err)
		}
		name := c.String("name")
		roots, cached, err := outliner.OutlineSource(ctx, name, src)
		outlines = append(outlines, indexing.FileOutline{Path: name, File: name, Roots: roots, Cached: cached, Err: err})
	case len(args) > 0:
		paths := make([]string, len(args))
		for i, arg := range args {
			paths[i] = resolvePath(cfg, arg)
		}
		outlines, err = outliner.OutlineFiles(ctx, paths)
	default:
		outlines, err = indexing.OutlineProject(ctx, cfg, outliner.Cache())
	}
	if outlines == nil && err != nil {
		return err
	}

	treeMode := c.Bool("tree") || c.Bool("compact")

	var views []symbols.View
	var failures []error
	for _, fo := range outlines {
		if fo.Err != nil {
			failures = append(failures, fo.Err)
			continue
		}
		if flat && !treeMode {
			views = append(views, symbols.FlatViews(fo.Roots, includeComments)...)
		} else {
			views = append(views, symbols.Views(fo.Roots, includeComments)...)
		}
	}
	if views == nil {
		views = []symbols.View{}
	}
	if treeMode {
		treeFormat := "tree"
		if c.Bool("compact") {
			treeFormat = "compact"
		}
		formatter := display.NewTreeFormatter(display.FormatterOptions{
			Format:    treeFormat,
			ShowLines: c.Bool("lines"),
			MaxDepth:  c.Int("depth"),
		})
		if _, err := io.WriteString(c.App.Writer, formatter.Format(views)); err != nil {
			return err
		}
	} else if err := symbols.Encode(c.App.Writer, format, views); err != nil {
		return err
	}

	for _, f := range failures {
		fmt.Fprintf(c.App.ErrWriter, "hatch: %v\n", f)
	}
	return errors.NewMultiError(failures).ErrorOrNil()
}

// resolvePath anchors relative arguments at the working directory, the way a
// shell user expects.
func resolvePath(cfg *config.Config, arg string) string {
	if filepath.IsAbs(arg) {
		return arg
	}
	if abs, err := filepath.Abs(arg); err == nil {
		return abs
	}
	return filepath.Join(cfg.Project.Root, arg)
}

// projectOutlines outlines the project, keeping per-file failures on their
// entries.
func projectOutlines(c *cli.Context, cfg *config.Config) ([]indexing.FileOutline, error) {
	ctx, cancel := signalContext(c.Context)
	defer cancel()

	outlines, err := indexing.OutlineProject(ctx, cfg, cache.NewOutlineCache(cfg.Index.CacheEntries))
	if outlines == nil && err != nil {
		return nil, err
	}
	return outlines, nil
}

type findResult struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Column    int     `json:"column"`
	Container string  `json:"container,omitempty"`
	Score     float64 `json:"score"`
	Match     string  `json:"match"`
}

func findCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("find requires a query")
	}
	query := strings.Join(c.Args().Slice(), " ")

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	var kind symbols.Kind
	if k := strings.ToLower(strings.TrimSpace(c.String("kind"))); k != "" {
		kind = symbols.Kind(k)
		if !knownKind(kind) {
			return fmt.Errorf("unknown symbol kind %q", k)
		}
	}

	outlines, err := projectOutlines(c, cfg)
	if err != nil {
		return err
	}
	results, err := search.NewFinder(outlines, cfg.Search).Find(query, search.Options{
		Kind:       kind,
		MaxResults: c.Int("max"),
	})
	if err != nil {
		return err
	}

	if c.Bool("json") {
		out := make([]findResult, 0, len(results))
		for _, r := range results {
			out = append(out, findResult{
				Name:      r.Name,
				Kind:      string(r.Kind),
				File:      r.File,
				Line:      r.Line,
				Column:    r.Column,
				Container: r.Container,
				Score:     r.Score,
				Match:     string(r.Match),
			})
		}
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	if len(results) == 0 {
		fmt.Fprintf(c.App.Writer, "No symbols match %q\n", query)
		return nil
	}
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	for _, r := range results {
		name := r.Name
		if r.Container != "" {
			name = r.Container + "." + r.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s:%d:%d\t%.2f %s\n", r.Kind, name, r.File, r.Line, r.Column, r.Score, r.Match)
	}
	return tw.Flush()
}

func knownKind(kind symbols.Kind) bool {
	for _, k := range symbols.Kinds {
		if k == kind {
			return true
		}
	}
	return false
}

func statsCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	outlines, err := projectOutlines(c, cfg)
	if err != nil {
		return err
	}
	stats := metrics.Compute(outlines)

	if c.Bool("json") {
		enc := json.NewEncoder(c.App.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	return stats.WriteText(c.App.Writer)
}
