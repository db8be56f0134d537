// Package metrics summarizes outlines.
package metrics

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/symbols"
)

// OutlineStats aggregates symbol counts over a set of file outlines.
type OutlineStats struct {
	Files          int                  `json:"files"`
	FailedFiles    int                  `json:"failed_files"`
	CachedFiles    int                  `json:"cached_files"`
	TotalSymbols   int                  `json:"total_symbols"`
	RootSymbols    int                  `json:"root_symbols"`
	Documented     int                  `json:"documented"`
	Mysteries      int                  `json:"mysteries"`
	MaxDepth       int                  `json:"max_depth"`
	ByKind         map[symbols.Kind]int `json:"by_kind"`
	MysteryKinds   map[string]int       `json:"mystery_kinds,omitempty"`
	LargestFile    string               `json:"largest_file,omitempty"`
	LargestSymbols int                  `json:"largest_file_symbols,omitempty"`
}

// NewOutlineStats returns empty statistics.
func NewOutlineStats() *OutlineStats {
	return &OutlineStats{
		ByKind:       make(map[symbols.Kind]int),
		MysteryKinds: make(map[string]int),
	}
}

// Compute builds statistics from outlines.
func Compute(outlines []indexing.FileOutline) *OutlineStats {
	s := NewOutlineStats()
	for _, fo := range outlines {
		s.Add(fo)
	}
	return s
}

// Add folds one file into the statistics.
func (s *OutlineStats) Add(fo indexing.FileOutline) {
	if !fo.OK() {
		s.FailedFiles++
		return
	}
	s.Files++
	if fo.Cached {
		s.CachedFiles++
	}
	s.RootSymbols += len(fo.Roots)

	count := 0
	symbols.Walk(fo.Roots, func(sym symbols.Symbol, depth int) bool {
		count++
		s.ByKind[sym.Kind()]++
		if sym.Kind() == symbols.KindMystery {
			s.Mysteries++
			s.MysteryKinds[symbols.NameOf(sym)]++
		}
		if symbols.HasDocumentation(sym) {
			s.Documented++
		}
		if depth+1 > s.MaxDepth {
			s.MaxDepth = depth + 1
		}
		return true
	})
	s.TotalSymbols += count

	if count > s.LargestSymbols || (count == s.LargestSymbols && count > 0 && fo.File < s.LargestFile) {
		s.LargestFile, s.LargestSymbols = fo.File, count
	}
}

// DocumentedRatio is the share of symbols with a documentation comment.
func (s *OutlineStats) DocumentedRatio() float64 {
	if s.TotalSymbols == 0 {
		return 0
	}
	return float64(s.Documented) / float64(s.TotalSymbols)
}

// Kinds returns the observed kinds ordered by count, then name.
func (s *OutlineStats) Kinds() []symbols.Kind {
	kinds := make([]symbols.Kind, 0, len(s.ByKind))
	for k := range s.ByKind {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if s.ByKind[kinds[i]] != s.ByKind[kinds[j]] {
			return s.ByKind[kinds[i]] > s.ByKind[kinds[j]]
		}
		return kinds[i] < kinds[j]
	})
	return kinds
}

// WriteText renders a human-readable summary.
func (s *OutlineStats) WriteText(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "files:        %d", s.Files)
	if s.FailedFiles > 0 {
		fmt.Fprintf(&b, " (%d failed)", s.FailedFiles)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "symbols:      %d (%d roots)\n", s.TotalSymbols, s.RootSymbols)
	fmt.Fprintf(&b, "documented:   %d (%.1f%%)\n", s.Documented, 100*s.DocumentedRatio())
	fmt.Fprintf(&b, "max depth:    %d\n", s.MaxDepth)
	fmt.Fprintf(&b, "mysteries:    %d\n", s.Mysteries)
	if s.LargestFile != "" {
		fmt.Fprintf(&b, "largest file: %s (%d symbols)\n", s.LargestFile, s.LargestSymbols)
	}
	for _, k := range s.Kinds() {
		fmt.Fprintf(&b, "  %-18s %d\n", k, s.ByKind[k])
	}
	_, err := io.WriteString(w, b.String())
	return err
}
