package symbols

// CommentType distinguishes ordinary comments from documentation comments
// (/// and /** */).
type CommentType string

const (
	CommentRegular       CommentType = "regular"
	CommentDocumentation CommentType = "documentation"
)

// Comment is one line of a leading comment block with its markers stripped.
type Comment struct {
	Type CommentType
	Text string
}

// IsDoc reports whether the comment came from a documentation marker.
func (c Comment) IsDoc() bool { return c.Type == CommentDocumentation }

// HasDocumentation reports whether any of the symbol's leading comments is a doc comment.
func HasDocumentation(s Symbol) bool {
	for _, c := range s.Base().Comments {
		if c.IsDoc() {
			return true
		}
	}
	return false
}
