// Package search finds symbols by name across outlined files.
package search

import (
	"errors"
	"sort"
	"strings"

	"github.com/warrenburton/Hatch/internal/config"
	hatcherrors "github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/symbols"
)

// Layer scores. A symbol takes the best score of every layer it matches.
const (
	ScoreExact     = 1.0
	ScoreSubstring = 0.9
	ScoreFuzzy     = 0.7 // scaled by the similarity
	ScoreStem      = 0.6
)

// MatchType names the layer that produced a score.
type MatchType string

const (
	MatchExact     MatchType = "exact"
	MatchPrefix    MatchType = "prefix"
	MatchSubstring MatchType = "substring"
	MatchFuzzy     MatchType = "fuzzy"
	MatchStem      MatchType = "stem"
)

// ErrEmptyQuery is wrapped in a SearchError for blank queries.
var ErrEmptyQuery = errors.New("empty query")

// Result is one matching symbol.
type Result struct {
	Symbol    symbols.Symbol
	Name      string
	Kind      symbols.Kind
	File      string
	Line      int
	Column    int
	Container string // dotted names of the enclosing symbols
	Score     float64
	Match     MatchType
}

// Options narrows a query.
type Options struct {
	Kind       symbols.Kind // empty matches every kind
	MaxResults int          // 0 uses the finder default
}

// Finder scores every named symbol of a set of outlines against a query.
type Finder struct {
	outlines   []indexing.FileOutline
	stemmer    *Stemmer
	fuzzy      *FuzzyMatcher
	maxResults int
}

// NewFinder creates a finder over outlines using the search settings.
func NewFinder(outlines []indexing.FileOutline, cfg config.Search) *Finder {
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = config.DefaultMaxResults
	}
	return &Finder{
		outlines:   outlines,
		stemmer:    NewStemmer(cfg.Stemming),
		fuzzy:      NewFuzzyMatcher(cfg.EnableFuzzy, cfg.FuzzyThreshold),
		maxResults: maxResults,
	}
}

// Find returns the matches for query ordered by score, then file, then line.
func (f *Finder) Find(query string, opts Options) ([]Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, hatcherrors.NewSearchError(query, ErrEmptyQuery)
	}
	q := newQuery(query, f.stemmer)

	var results []Result
	for _, fo := range f.outlines {
		if !fo.OK() {
			continue
		}
		var containers []string
		symbols.Walk(fo.Roots, func(s symbols.Symbol, depth int) bool {
			containers = containers[:depth]
			name := symbols.NameOf(s)
			defer func() { containers = append(containers, name) }()

			if name == "" || (opts.Kind != "" && s.Kind() != opts.Kind) {
				return true
			}
			score, match := f.score(q, name)
			if score == 0 {
				return true
			}
			r := s.Base().Range
			results = append(results, Result{
				Symbol:    s,
				Name:      name,
				Kind:      s.Kind(),
				File:      fo.File,
				Line:      r.Start.Line,
				Column:    r.Start.Column,
				Container: joinNames(containers),
				Score:     score,
				Match:     match,
			})
			return true
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.File != b.File {
			return a.File < b.File
		}
		if a.Line != b.Line {
			return a.Line < b.Line
		}
		return a.Column < b.Column
	})

	limit := f.maxResults
	if opts.MaxResults > 0 {
		limit = opts.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

type query struct {
	raw   string
	lower string
	stems []string
}

func newQuery(raw string, stemmer *Stemmer) query {
	return query{
		raw:   raw,
		lower: strings.ToLower(raw),
		stems: stemmer.StemAll(SplitName(raw)),
	}
}

// score returns the best layer score of name, or 0 when nothing matches.
func (f *Finder) score(q query, name string) (float64, MatchType) {
	lower := strings.ToLower(name)
	switch {
	case lower == q.lower:
		return ScoreExact, MatchExact
	case strings.HasPrefix(lower, q.lower):
		return ScoreSubstring, MatchPrefix
	case strings.Contains(lower, q.lower):
		return ScoreSubstring, MatchSubstring
	}

	best, match := 0.0, MatchType("")
	if sim, ok := f.fuzzy.Match(q.raw, name); ok {
		best, match = ScoreFuzzy*sim, MatchFuzzy
	}
	if best < ScoreStem && f.stemmer.IsEnabled() && containsAll(f.stemmer.StemAll(SplitName(name)), q.stems) {
		best, match = ScoreStem, MatchStem
	}
	return best, match
}

func containsAll(have, want []string) bool {
	if len(want) == 0 {
		return false
	}
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, w := range want {
		if !set[w] {
			return false
		}
	}
	return true
}

func joinNames(names []string) string {
	var parts []string
	for _, n := range names {
		if n != "" {
			parts = append(parts, n)
		}
	}
	return strings.Join(parts, ".")
}
