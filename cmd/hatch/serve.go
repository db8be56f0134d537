package main

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/mcp"
	"github.com/warrenburton/Hatch/internal/symbols"
)

// watchCommand prints one line per re-outlined or removed file until
// interrupted.
func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	scanner := indexing.NewScanner(cfg)
	outliner := indexing.NewOutliner(cfg, cache.NewOutlineCache(cfg.Index.CacheEntries))
	w, err := indexing.NewWatcher(cfg, scanner, outliner)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	var mu sync.Mutex
	out := c.App.Writer
	w.OnOutline(func(fo indexing.FileOutline) {
		mu.Lock()
		defer mu.Unlock()
		if fo.Err != nil {
			fmt.Fprintf(c.App.ErrWriter, "hatch: %v\n", fo.Err)
			return
		}
		fmt.Fprintf(out, "%s  %s: %d symbols\n", time.Now().Format("15:04:05"), fo.File, len(symbols.Flatten(fo.Roots)))
	})
	w.OnRemove(func(file string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "%s  %s: removed\n", time.Now().Format("15:04:05"), file)
	})

	if err := w.Start(); err != nil {
		_ = w.Stop()
		return err
	}
	fmt.Fprintf(out, "Watching %s (Ctrl-C to stop)\n", scanner.Root())

	ctx, cancel := signalContext(c.Context)
	defer cancel()
	<-ctx.Done()

	if err := w.Stop(); err != nil {
		return err
	}
	stats := w.Stats()
	fmt.Fprintf(out, "Stopped: %d events, %d outlined, %d removed, %d errors\n",
		stats.EventsProcessed, stats.Outlined, stats.Removed, stats.Errors)
	return nil
}

func mcpCommand(c *cli.Context) error {
	// stdio belongs to the protocol from here on
	debug.SetMCPMode(true)

	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return debug.Fatal("failed to load config: %v\n", err)
	}

	srv, err := mcp.NewServer(cfg)
	if err != nil {
		return debug.Fatal("failed to create MCP server: %v\n", err)
	}

	ctx, cancel := signalContext(c.Context)
	defer cancel()

	runErr := srv.Start(ctx)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		debug.LogMCP("shutdown: %v\n", err)
	}

	if runErr != nil && ctx.Err() == nil {
		return runErr
	}
	return nil
}
