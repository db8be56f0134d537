package symbols

import "fmt"

// Position is a point in source text. Line and Column are 1-based; Column counts
// bytes. Offset is the 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Before reports whether p comes strictly before o.
func (p Position) Before(o Position) bool { return p.Offset < o.Offset }

// SourceRange is a half-open span [Start, End) in one source unit.
type SourceRange struct {
	File  string
	Start Position
	End   Position
}

// Contains reports whether inner lies within r.
func (r SourceRange) Contains(inner SourceRange) bool {
	return r.Start.Offset <= inner.Start.Offset && inner.End.Offset <= r.End.Offset
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%s:%d:%d-%d:%d", r.File, r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
}
