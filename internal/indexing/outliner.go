package indexing

import (
	"context"
	"fmt"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/outline"
	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/pkg/pathutil"
)

// FileOutline is the outline of one source file. File is the logical name
// recorded in every symbol's range; Err is set when the file failed.
type FileOutline struct {
	Path   string
	File   string
	Roots  []symbols.Symbol
	Cached bool
	Err    error
}

// OK reports whether the file was outlined.
func (f FileOutline) OK() bool { return f.Err == nil }

// Outliner parses files independently on a bounded worker pool. Each file gets
// its own parse and its own builder; only the cache is shared.
type Outliner struct {
	root        string
	workers     int
	maxFileSize int64
	cache       *cache.OutlineCache
}

// NewOutliner creates an outliner for cfg. A nil cache disables caching.
func NewOutliner(cfg *config.Config, c *cache.OutlineCache) *Outliner {
	return &Outliner{
		root:        cfg.Project.Root,
		workers:     cfg.Workers(),
		maxFileSize: cfg.Index.MaxFileSize,
		cache:       c,
	}
}

// Cache returns the shared outline cache, possibly nil.
func (o *Outliner) Cache() *cache.OutlineCache { return o.cache }

// OutlineFiles outlines paths in parallel. Results keep the input order. A
// failing file does not stop the others; its error is recorded on its result
// and collected into the returned MultiError. Cancellation aborts the run.
func (o *Outliner) OutlineFiles(ctx context.Context, paths []string) ([]FileOutline, error) {
	results := make([]FileOutline, len(paths))
	start := time.Now()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = o.OutlineFile(gctx, path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	debug.LogIndexing("outlined %d files (%d failed) in %v\n", len(paths), len(errs), time.Since(start))
	return results, errors.NewMultiError(errs).ErrorOrNil()
}

// OutlineFile reads and outlines a single file.
func (o *Outliner) OutlineFile(ctx context.Context, path string) FileOutline {
	result := FileOutline{Path: path, File: o.displayName(path)}

	info, err := os.Stat(path)
	if err != nil {
		result.Err = errors.NewFileError("stat", path, err)
		return result
	}
	if info.IsDir() {
		result.Err = errors.NewFileError("read", path, fmt.Errorf("is a directory"))
		return result
	}
	if o.maxFileSize > 0 && info.Size() > o.maxFileSize {
		result.Err = errors.NewFileTooLargeError(path, info.Size(), o.maxFileSize)
		return result
	}

	source, err := os.ReadFile(path)
	if err != nil {
		result.Err = errors.NewFileError("read", path, err)
		return result
	}
	result.Roots, result.Cached, result.Err = o.OutlineSource(ctx, result.File, source)
	return result
}

// OutlineSource outlines in-memory source under the logical name file,
// consulting the cache first. The boolean reports a cache hit.
func (o *Outliner) OutlineSource(ctx context.Context, file string, source []byte) ([]symbols.Symbol, bool, error) {
	if IsBinaryContent(source) {
		return nil, false, errors.NewFileError("read", file, fmt.Errorf("binary content"))
	}
	if roots, ok := o.cache.Get(file, source); ok {
		return roots, true, nil
	}

	roots, err := outline.ParseSource(ctx, source, file)
	if err != nil {
		return nil, false, err
	}
	o.cache.Put(file, source, roots)
	return roots, false, nil
}

// displayName is the root-relative, slash-separated name of path, or path
// itself when it lies outside the root.
func (o *Outliner) displayName(path string) string {
	return pathutil.DisplayName(path, o.root)
}

// OutlineProject scans the configured root and outlines every selected file.
func OutlineProject(ctx context.Context, cfg *config.Config, c *cache.OutlineCache) ([]FileOutline, error) {
	files, err := NewScanner(cfg).Scan(ctx)
	if err != nil {
		return nil, err
	}
	return NewOutliner(cfg, c).OutlineFiles(ctx, files)
}

// Successful drops failed entries.
func Successful(outlines []FileOutline) []FileOutline {
	out := make([]FileOutline, 0, len(outlines))
	for _, f := range outlines {
		if f.OK() {
			out = append(out, f)
		}
	}
	return out
}
