package syntax

import "sort"

// Location is a resolved source position. Line and Column are 1-based and
// Column counts bytes.
type Location struct {
	Line   int
	Column int
	Offset int
}

// LocationConverter maps byte offsets to line and column.
type LocationConverter struct {
	lineStarts []int
	size       int
}

// NewLocationConverter indexes the line starts of source.
func NewLocationConverter(source []byte) *LocationConverter {
	starts := []int{0}
	for i, b := range source {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &LocationConverter{lineStarts: starts, size: len(source)}
}

// Location resolves offset. Offsets outside the source are clamped.
func (c *LocationConverter) Location(offset int) Location {
	if offset < 0 {
		offset = 0
	}
	if offset > c.size {
		offset = c.size
	}
	line := sort.Search(len(c.lineStarts), func(i int) bool { return c.lineStarts[i] > offset }) - 1
	return Location{
		Line:   line + 1,
		Column: offset - c.lineStarts[line] + 1,
		Offset: offset,
	}
}

// Lines is the number of lines in the source.
func (c *LocationConverter) Lines() int { return len(c.lineStarts) }
