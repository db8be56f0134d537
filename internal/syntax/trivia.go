package syntax

import "strings"

// TriviaKind classifies one run of trivia.
type TriviaKind int

const (
	TriviaSpaces TriviaKind = iota
	TriviaNewlines
	TriviaLineComment
	TriviaDocLineComment
	TriviaBlockComment
	TriviaDocBlockComment
	TriviaUnexpected
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpaces:
		return "spaces"
	case TriviaNewlines:
		return "newlines"
	case TriviaLineComment:
		return "line_comment"
	case TriviaDocLineComment:
		return "doc_line_comment"
	case TriviaBlockComment:
		return "block_comment"
	case TriviaDocBlockComment:
		return "doc_block_comment"
	default:
		return "unexpected"
	}
}

// IsComment reports whether the kind is one of the comment kinds.
func (k TriviaKind) IsComment() bool {
	return k >= TriviaLineComment && k <= TriviaDocBlockComment
}

// IsDoc reports whether the kind is a documentation comment.
func (k TriviaKind) IsDoc() bool {
	return k == TriviaDocLineComment || k == TriviaDocBlockComment
}

// TriviaPiece is one run of trivia. Count is the number of newlines for
// TriviaNewlines; Text is the raw text of the run.
type TriviaPiece struct {
	Kind  TriviaKind
	Text  string
	Count int
}

// ParseTrivia splits raw trivia into pieces. A whitespace-only line between two
// newlines is folded into the newline run, so "\n  \n" is one piece with Count 2.
func ParseTrivia(raw string) []TriviaPiece {
	var pieces []TriviaPiece
	i := 0
	for i < len(raw) {
		start := i
		switch c := raw[i]; {
		case isNewlineAt(raw, i):
			count := 0
			for isNewlineAt(raw, i) {
				i += newlineWidth(raw, i)
				count++
				j := skipBlanks(raw, i)
				if !isNewlineAt(raw, j) {
					break
				}
				i = j
			}
			pieces = append(pieces, TriviaPiece{Kind: TriviaNewlines, Text: raw[start:i], Count: count})
		case isBlank(c):
			i = skipBlanks(raw, i)
			pieces = append(pieces, TriviaPiece{Kind: TriviaSpaces, Text: raw[start:i]})
		case strings.HasPrefix(raw[i:], "//"):
			end := strings.IndexAny(raw[i:], "\r\n")
			if end < 0 {
				i = len(raw)
			} else {
				i += end
			}
			kind := TriviaLineComment
			if strings.HasPrefix(raw[start:], "///") {
				kind = TriviaDocLineComment
			}
			pieces = append(pieces, TriviaPiece{Kind: kind, Text: raw[start:i]})
		case strings.HasPrefix(raw[i:], "/*"):
			i = blockCommentEnd(raw, i)
			kind := TriviaBlockComment
			text := raw[start:i]
			if strings.HasPrefix(text, "/**") && !strings.HasPrefix(text, "/**/") {
				kind = TriviaDocBlockComment
			}
			pieces = append(pieces, TriviaPiece{Kind: kind, Text: text})
		default:
			for i < len(raw) && !isBlank(raw[i]) && !isNewlineAt(raw, i) {
				i++
			}
			pieces = append(pieces, TriviaPiece{Kind: TriviaUnexpected, Text: raw[start:i]})
		}
	}
	return pieces
}

func isBlank(c byte) bool {
	return c == ' ' || c == '\t' || c == '\v' || c == '\f'
}

func isNewlineAt(s string, i int) bool {
	if i >= len(s) {
		return false
	}
	return s[i] == '\n' || (s[i] == '\r')
}

func newlineWidth(s string, i int) int {
	if s[i] == '\r' && i+1 < len(s) && s[i+1] == '\n' {
		return 2
	}
	return 1
}

func skipBlanks(s string, i int) int {
	for i < len(s) && isBlank(s[i]) {
		i++
	}
	return i
}

// blockCommentEnd returns the offset just past the block comment starting at
// i. Block comments nest. An unterminated comment runs to the end of s.
func blockCommentEnd(s string, i int) int {
	depth := 0
	for i < len(s) {
		switch {
		case strings.HasPrefix(s[i:], "/*"):
			depth++
			i += 2
		case strings.HasPrefix(s[i:], "*/"):
			depth--
			i += 2
			if depth == 0 {
				return i
			}
		default:
			i++
		}
	}
	return len(s)
}
