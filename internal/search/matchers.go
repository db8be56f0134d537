package search

import (
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/surgebase/porter2"
)

// minStemLength keeps short words such as "id" or "ok" unstemmed.
const minStemLength = 3

// Stemmer normalizes words with the porter2 algorithm.
type Stemmer struct {
	enabled bool
}

// NewStemmer creates a stemmer; a disabled stemmer returns words unchanged.
func NewStemmer(enabled bool) *Stemmer {
	return &Stemmer{enabled: enabled}
}

// IsEnabled checks if stemming is enabled
func (s *Stemmer) IsEnabled() bool { return s.enabled }

// Stem returns the lower-case stem of word, or the lower-cased word when
// stemming is off or the word is too short.
func (s *Stemmer) Stem(word string) string {
	word = strings.ToLower(word)
	if !s.enabled || len(word) < minStemLength {
		return word
	}
	return porter2.Stem(word)
}

// StemAll applies Stem to every word.
func (s *Stemmer) StemAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		out = append(out, s.Stem(w))
	}
	return out
}

// FuzzyMatcher scores string similarity with Jaro-Winkler.
type FuzzyMatcher struct {
	enabled   bool
	threshold float64
}

// NewFuzzyMatcher creates a matcher accepting similarities >= threshold. An
// out-of-range threshold falls back to 0.8.
func NewFuzzyMatcher(enabled bool, threshold float64) *FuzzyMatcher {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.8
	}
	return &FuzzyMatcher{enabled: enabled, threshold: threshold}
}

// IsEnabled checks if fuzzy matching is enabled
func (fm *FuzzyMatcher) IsEnabled() bool { return fm.enabled }

// Threshold returns the minimum accepted similarity.
func (fm *FuzzyMatcher) Threshold() float64 { return fm.threshold }

// Similarity returns the case-insensitive Jaro-Winkler similarity in [0, 1].
func (fm *FuzzyMatcher) Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return 0.0
	}
	return float64(score)
}

// Match reports the similarity and whether it clears the threshold.
func (fm *FuzzyMatcher) Match(a, b string) (float64, bool) {
	if !fm.enabled {
		return 0, false
	}
	sim := fm.Similarity(a, b)
	return sim, sim >= fm.threshold
}
