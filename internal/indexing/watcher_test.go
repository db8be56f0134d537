package indexing

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/testhelpers"
)

type recorder struct {
	mu       sync.Mutex
	outlines []FileOutline
	removed  []string
}

func (r *recorder) outline(f FileOutline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outlines = append(r.outlines, f)
}

func (r *recorder) remove(file string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.removed = append(r.removed, file)
}

func (r *recorder) sawOutline(file, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.outlines {
		if o.File == file && o.OK() && len(o.Roots) > 0 && rootNames(o.Roots)[0] == name {
			return true
		}
	}
	return false
}

func (r *recorder) sawRemove(file string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.removed {
		if f == file {
			return true
		}
	}
	return false
}

func startWatcher(t *testing.T, p *testhelpers.Project) (*Watcher, *recorder) {
	t.Helper()
	cfg := p.Config()
	w, err := NewWatcher(cfg, NewScanner(cfg), NewOutliner(cfg, cache.NewOutlineCache(16)))
	require.NoError(t, err)

	rec := &recorder{}
	w.OnOutline(rec.outline)
	w.OnRemove(rec.remove)
	require.NoError(t, w.Start())
	return w, rec
}

func TestWatcherReoutlinesChangedFiles(t *testing.T) {
	testhelpers.SkipIfShort(t, "uses the file system watcher")
	defer testhelpers.AssertNoLeaks(t)

	p := testhelpers.NewProject(t).File("Sources/A.swift", "struct A {}\n")
	w, rec := startWatcher(t, p)

	p.File("Sources/A.swift", "struct Changed {}\n")
	testhelpers.WaitFor(t, func() bool { return rec.sawOutline("Sources/A.swift", "Changed") }, 5*time.Second)

	p.File("Sources/New.swift", "enum Fresh {}\n")
	testhelpers.WaitFor(t, func() bool { return rec.sawOutline("Sources/New.swift", "Fresh") }, 5*time.Second)

	p.Remove("Sources/New.swift")
	testhelpers.WaitFor(t, func() bool { return rec.sawRemove("Sources/New.swift") }, 5*time.Second)

	require.NoError(t, w.Stop())
	stats := w.Stats()
	assert.GreaterOrEqual(t, stats.Outlined, int64(2))
	assert.GreaterOrEqual(t, stats.Removed, int64(1))
}

func TestWatcherWatchesNewDirectories(t *testing.T) {
	testhelpers.SkipIfShort(t, "uses the file system watcher")
	defer testhelpers.AssertNoLeaks(t)

	p := testhelpers.NewProject(t)
	w, rec := startWatcher(t, p)
	defer w.Stop()

	p.File("Nested/Deep.swift", "")
	// the directory watch is added asynchronously; rewrite until it is seen
	deadline := time.Now().Add(5 * time.Second)
	for !rec.sawOutline("Nested/Deep.swift", "Deep") {
		require.True(t, time.Now().Before(deadline), "nested file never outlined")
		p.File("Nested/Deep.swift", "struct Deep {}\n")
		time.Sleep(250 * time.Millisecond)
	}
}

func TestWatcherIgnoresUnselectedFiles(t *testing.T) {
	testhelpers.SkipIfShort(t, "uses the file system watcher")
	defer testhelpers.AssertNoLeaks(t)

	p := testhelpers.NewProject(t)
	w, rec := startWatcher(t, p)

	p.File("notes.txt", "hello\n")
	p.File("Tracked.swift", "struct Tracked {}\n")
	testhelpers.WaitFor(t, func() bool { return rec.sawOutline("Tracked.swift", "Tracked") }, 5*time.Second)
	require.NoError(t, w.Stop())

	rec.mu.Lock()
	defer rec.mu.Unlock()
	for _, o := range rec.outlines {
		assert.NotEqual(t, "notes.txt", o.File)
	}
}

func TestWatcherStopIsIdempotent(t *testing.T) {
	defer testhelpers.AssertNoLeaks(t)

	p := testhelpers.NewProject(t)
	w, _ := startWatcher(t, p)
	require.NoError(t, w.Stop())
	assert.NotPanics(t, func() { _ = w.Stop() })
}

func TestFileEventTypeString(t *testing.T) {
	assert.Equal(t, "write", FileEventWrite.String())
	assert.Equal(t, "remove", FileEventRemove.String())
}

func TestWatcherFlushDispatchesInPathOrder(t *testing.T) {
	p := testhelpers.NewProject(t).
		File("Sources/b.swift", "struct B {}\n").
		File("Sources/a.swift", "struct A {}\n").
		File("Sources/d.swift", "struct D {}\n")
	cfg := p.Config()
	w, err := NewWatcher(cfg, NewScanner(cfg), NewOutliner(cfg, nil))
	require.NoError(t, err)
	defer w.Stop()

	var order []string
	w.OnOutline(func(fo FileOutline) { order = append(order, fo.File) })
	w.OnRemove(func(file string) { order = append(order, "-"+file) })

	w.pending[p.Path("Sources/d.swift")] = FileEventWrite
	w.pending[p.Path("Sources/c.swift")] = FileEventRemove
	w.pending[p.Path("Sources/a.swift")] = FileEventWrite
	w.pending[p.Path("Sources/b.swift")] = FileEventWrite
	w.flush()

	assert.Equal(t, []string{
		"Sources/a.swift",
		"Sources/b.swift",
		"-Sources/c.swift",
		"Sources/d.swift",
	}, order)
	assert.Empty(t, w.pending)
}
