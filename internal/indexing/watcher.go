package indexing

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/warrenburton/Hatch/internal/config"
	"github.com/warrenburton/Hatch/internal/debug"
)

// FileEventType is the debounced kind of change for one path.
type FileEventType int

const (
	FileEventWrite FileEventType = iota
	FileEventRemove
)

func (t FileEventType) String() string {
	if t == FileEventRemove {
		return "remove"
	}
	return "write"
}

// WatcherStats counts processed work.
type WatcherStats struct {
	EventsProcessed int64 `json:"events_processed"`
	Outlined        int64 `json:"outlined"`
	Removed         int64 `json:"removed"`
	Errors          int64 `json:"errors"`
}

// Watcher re-outlines selected files after they change. Events are debounced
// per path: the latest event within the window wins, and one batch is
// processed when the window closes without new events.
type Watcher struct {
	watcher  *fsnotify.Watcher
	scanner  *Scanner
	outliner *Outliner
	debounce time.Duration

	onOutline func(FileOutline)
	onRemove  func(file string)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	pending  map[string]FileEventType
	stopOnce sync.Once
	stopErr  error

	eventsProcessed int64
	outlined        int64
	removed         int64
	errorCount      int64
}

// NewWatcher creates a watcher over the scanner's root.
func NewWatcher(cfg *config.Config, scanner *Scanner, outliner *Outliner) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	debounce := time.Duration(cfg.Index.WatchDebounceMs) * time.Millisecond
	if debounce <= 0 {
		debounce = time.Duration(config.DefaultWatchDebounceMs) * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		watcher:  fsw,
		scanner:  scanner,
		outliner: outliner,
		debounce: debounce,
		ctx:      ctx,
		cancel:   cancel,
		pending:  make(map[string]FileEventType),
	}, nil
}

// OnOutline registers the callback receiving each re-outlined file. Register
// callbacks before Start; they run on the watcher goroutine.
func (w *Watcher) OnOutline(fn func(FileOutline)) { w.onOutline = fn }

// OnRemove registers the callback receiving the display name of removed files.
func (w *Watcher) OnRemove(fn func(file string)) { w.onRemove = fn }

// Start adds watches for the root and every non-excluded directory below it,
// then begins processing events.
func (w *Watcher) Start() error {
	root := w.scanner.Root()
	debug.LogWatch("starting watcher for %s\n", root)
	if err := w.addWatches(root); err != nil {
		return fmt.Errorf("failed to add watches starting from %s: %w", root, err)
	}

	w.wg.Add(1)
	go w.processEvents()
	return nil
}

// Stop ends event processing and waits for the watcher goroutine. Pending
// events are dropped. Stop is idempotent.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() {
		w.cancel()
		w.stopErr = w.watcher.Close()
		w.wg.Wait()
		debug.LogWatch("watcher stopped\n")
	})
	return w.stopErr
}

// Stats returns a snapshot of the counters.
func (w *Watcher) Stats() WatcherStats {
	return WatcherStats{
		EventsProcessed: atomic.LoadInt64(&w.eventsProcessed),
		Outlined:        atomic.LoadInt64(&w.outlined),
		Removed:         atomic.LoadInt64(&w.removed),
		Errors:          atomic.LoadInt64(&w.errorCount),
	}
}

func (w *Watcher) addWatches(root string) error {
	visited := make(map[string]bool)
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.scanner.ExcludedDir(w.scanner.Rel(path)) {
			return filepath.SkipDir
		}
		if real, err := filepath.EvalSymlinks(path); err == nil {
			if visited[real] {
				return filepath.SkipDir
			}
			visited[real] = true
		}
		if err := w.watcher.Add(path); err != nil {
			debug.LogWatch("failed to watch %s: %v\n", path, err)
		}
		return nil
	})
}

func (w *Watcher) processEvents() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.handleEvent(event) {
				timer.Reset(w.debounce)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			atomic.AddInt64(&w.errorCount, 1)
			debug.LogWatch("watcher error: %v\n", err)

		case <-timer.C:
			w.flush()
		}
	}
}

// handleEvent queues a selected file change and reports whether it did.
func (w *Watcher) handleEvent(event fsnotify.Event) bool {
	path := event.Name
	rel := w.scanner.Rel(path)
	debug.LogWatch("event %v for %s\n", event.Op, rel)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !w.scanner.ExcludedDir(rel) {
				if err := w.addWatches(path); err != nil {
					debug.LogWatch("failed to watch new directory %s: %v\n", path, err)
				}
			}
			return false
		}
	}
	if !w.scanner.Matches(rel) {
		return false
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.pending[path] = FileEventRemove
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		w.pending[path] = FileEventWrite
	default:
		return false
	}
	atomic.AddInt64(&w.eventsProcessed, 1)
	return true
}

func (w *Watcher) flush() {
	if len(w.pending) == 0 {
		return
	}
	batch := w.pending
	w.pending = make(map[string]FileEventType)
	debug.LogWatch("processing %d debounced events\n", len(batch))

	paths := make([]string, 0, len(batch))
	for path := range batch {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		kind := batch[path]
		if w.ctx.Err() != nil {
			return
		}
		if kind == FileEventRemove {
			atomic.AddInt64(&w.removed, 1)
			if w.onRemove != nil {
				w.onRemove(w.outliner.displayName(path))
			}
			continue
		}

		result := w.outliner.OutlineFile(w.ctx, path)
		if result.Err != nil {
			atomic.AddInt64(&w.errorCount, 1)
		} else {
			atomic.AddInt64(&w.outlined, 1)
		}
		if w.onOutline != nil {
			w.onOutline(result)
		}
	}
}
