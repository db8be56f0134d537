package search

import (
	"strings"
	"unicode"
)

// SplitName splits a symbol name into lower-case words. It handles
// camelCase, PascalCase with acronyms (HTTPServer -> http, server),
// snake_case, dotted paths and letter/digit boundaries.
func SplitName(name string) []string {
	if name == "" {
		return nil
	}

	runes := []rune(name)
	word := make([]rune, 0, 16)
	words := make([]string, 0, 4)
	flush := func() {
		if len(word) > 0 {
			words = append(words, strings.ToLower(string(word)))
			word = word[:0]
		}
	}

	for i, ch := range runes {
		if ch == '_' || ch == '-' || ch == '.' || ch == '/' || unicode.IsSpace(ch) {
			flush()
			continue
		}
		if i > 0 {
			prev := runes[i-1]
			switch {
			case unicode.IsLower(prev) && unicode.IsUpper(ch):
				flush()
			case i > 1 && unicode.IsUpper(prev) && unicode.IsLower(ch) && unicode.IsUpper(runes[i-2]):
				// end of an acronym: the last capital starts the next word
				if len(word) > 0 {
					last := word[len(word)-1]
					word = word[:len(word)-1]
					flush()
					word = append(word, last)
				}
			case unicode.IsLetter(prev) && unicode.IsDigit(ch),
				unicode.IsDigit(prev) && unicode.IsLetter(ch):
				flush()
			}
		}
		word = append(word, ch)
	}
	flush()
	return words
}
