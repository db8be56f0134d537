package indexing

import (
	"context"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/testhelpers"
)

func rootNames(roots []symbols.Symbol) []string {
	var out []string
	for _, r := range roots {
		out = append(out, symbols.NameOf(r))
	}
	return out
}

func TestOutlineFilesKeepsInputOrder(t *testing.T) {
	p := testhelpers.NewProject(t)
	var paths []string
	var want []string
	for _, name := range []string{"Zeta", "Alpha", "Mid", "Beta", "Omega", "Gamma"} {
		p.File("Sources/"+name+".swift", "struct "+name+" {}\n")
		paths = append(paths, p.Path("Sources/"+name+".swift"))
		want = append(want, name)
	}

	results, err := NewOutliner(p.Config(), nil).OutlineFiles(context.Background(), paths)
	require.NoError(t, err)
	require.Len(t, results, len(paths))

	for i, r := range results {
		require.True(t, r.OK())
		assert.Equal(t, paths[i], r.Path)
		assert.Equal(t, "Sources/"+want[i]+".swift", r.File)
		assert.Equal(t, []string{want[i]}, rootNames(r.Roots))
		assert.Equal(t, r.File, r.Roots[0].Base().Range.File)
	}
}

func TestOutlineFilesCollectsErrors(t *testing.T) {
	p := testhelpers.NewProject(t).
		File("Good.swift", "struct Good {}\n").
		File("Big.swift", "struct Big {}\n"+strings.Repeat("// pad\n", 400)).
		File("Bin.swift", "\x00\x01\x02")

	cfg := p.Config()
	cfg.Index.MaxFileSize = 1024
	paths := []string{p.Path("Good.swift"), p.Path("Missing.swift"), p.Path("Big.swift"), p.Path("Bin.swift")}

	results, err := NewOutliner(cfg, nil).OutlineFiles(context.Background(), paths)
	require.Error(t, err)
	require.Len(t, results, 4)

	var multi *errors.MultiError
	require.ErrorAs(t, err, &multi)
	assert.Len(t, multi.Errors, 3)

	assert.True(t, results[0].OK())
	assert.Equal(t, []string{"Good"}, rootNames(results[0].Roots))

	var fileErr *errors.FileError
	require.ErrorAs(t, results[1].Err, &fileErr)
	require.ErrorAs(t, results[2].Err, &fileErr)
	assert.Equal(t, errors.ErrorTypeFileTooLarge, fileErr.Type)
	assert.Error(t, results[3].Err)

	assert.Len(t, Successful(results), 1)
}

func TestOutlineFilesUsesCache(t *testing.T) {
	p := testhelpers.NewProject(t).File("A.swift", "struct A {}\n")
	c := cache.NewOutlineCache(8)
	o := NewOutliner(p.Config(), c)

	first := o.OutlineFile(context.Background(), p.Path("A.swift"))
	require.True(t, first.OK())
	assert.False(t, first.Cached)

	second := o.OutlineFile(context.Background(), p.Path("A.swift"))
	require.True(t, second.OK())
	assert.True(t, second.Cached)
	assert.Equal(t, first.Roots, second.Roots)

	p.File("A.swift", "struct B {}\n")
	third := o.OutlineFile(context.Background(), p.Path("A.swift"))
	require.True(t, third.OK())
	assert.False(t, third.Cached)
	assert.Equal(t, []string{"B"}, rootNames(third.Roots))

	assert.Equal(t, int64(1), c.Stats().Hits)
}

func TestOutlineFilesCanceled(t *testing.T) {
	p := testhelpers.NewProject(t).File("A.swift", "struct A {}\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewOutliner(p.Config(), nil).OutlineFiles(ctx, []string{p.Path("A.swift")})
	assert.True(t, stderrors.Is(err, context.Canceled))
}

func TestOutlineSourceDisplayName(t *testing.T) {
	o := NewOutliner(testhelpers.TestConfig("/project"), nil)
	assert.Equal(t, "Sources/A.swift", o.displayName("/project/Sources/A.swift"))
	assert.Equal(t, "/elsewhere/A.swift", o.displayName("/elsewhere/A.swift"))
	assert.Equal(t, "rel/A.swift", o.displayName("rel/A.swift"))

	roots, cached, err := o.OutlineSource(context.Background(), "Mem.swift", []byte("enum E { case a }"))
	require.NoError(t, err)
	assert.False(t, cached)
	assert.Equal(t, []string{"E"}, rootNames(roots))
}

func TestOutlineProject(t *testing.T) {
	p := testhelpers.NewProject(t).
		File("Sources/A.swift", "struct A {}\n").
		File("Sources/B.swift", "class B {}\n")

	results, err := OutlineProject(context.Background(), p.Config(), nil)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "Sources/A.swift", results[0].File)
	assert.Equal(t, "Sources/B.swift", results[1].File)
}
