package outline

import (
	"strings"

	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/internal/syntax"
)

// leadingComments returns the comment block touching the declaration: trivia is
// scanned backwards and collection stops at the first blank line.
func leadingComments(trivia string) []symbols.Comment {
	pieces := syntax.ParseTrivia(trivia)

	var blocks [][]symbols.Comment
	for i := len(pieces) - 1; i >= 0; i-- {
		p := pieces[i]
		if p.Kind == syntax.TriviaNewlines && p.Count >= 2 {
			break
		}
		if p.Kind.IsComment() {
			blocks = append(blocks, commentLines(p))
		}
	}

	var out []symbols.Comment
	for i := len(blocks) - 1; i >= 0; i-- {
		out = append(out, blocks[i]...)
	}
	return out
}

// commentLines strips markers and splits block comments into one Comment per line.
func commentLines(p syntax.TriviaPiece) []symbols.Comment {
	typ := symbols.CommentRegular
	if p.Kind.IsDoc() {
		typ = symbols.CommentDocumentation
	}

	switch p.Kind {
	case syntax.TriviaDocLineComment:
		return []symbols.Comment{{Type: typ, Text: strings.TrimSuffix(p.Text[3:], "\r")}}
	case syntax.TriviaLineComment:
		return []symbols.Comment{{Type: typ, Text: strings.TrimSuffix(p.Text[2:], "\r")}}
	}

	body := p.Text[2:]
	if p.Kind == syntax.TriviaDocBlockComment {
		body = p.Text[3:]
	}
	body = strings.TrimSuffix(body, "*/")

	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	out := make([]symbols.Comment, 0, len(lines))
	for i, line := range lines {
		if i > 0 {
			// continuation lines usually start with " * "
			line = strings.TrimLeft(line, " \t")
			line = strings.TrimPrefix(line, "*")
		}
		if len(lines) > 1 && (i == 0 || i == len(lines)-1) && strings.TrimSpace(line) == "" {
			continue
		}
		out = append(out, symbols.Comment{Type: typ, Text: line})
	}
	return out
}
