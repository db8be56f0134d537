// Package display renders symbol outlines for terminals.
package display

import (
	"fmt"
	"strings"

	"github.com/warrenburton/Hatch/internal/symbols"
)

// TreeFormatter draws outlines as branch trees, one block per file.
type TreeFormatter struct {
	options FormatterOptions
}

// FormatterOptions controls tree formatting
type FormatterOptions struct {
	Format    string // "tree" or "compact"
	ShowLines bool   // Show start lines
	MaxDepth  int    // Levels drawn, 1 = roots only, 0 = unlimited
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(options FormatterOptions) *TreeFormatter {
	if options.Format == "" {
		options.Format = "tree"
	}
	return &TreeFormatter{options: options}
}

// Format renders views. Views of the same file are grouped in first-seen order.
func (tf *TreeFormatter) Format(views []symbols.View) string {
	if len(views) == 0 {
		return "No symbols\n"
	}

	var sb strings.Builder
	for i, group := range groupByFile(views) {
		if tf.options.Format == "compact" {
			tf.formatCompact(&sb, group)
			continue
		}
		if i > 0 {
			sb.WriteString("\n")
		}
		tf.formatTree(&sb, group)
	}
	return sb.String()
}

type fileGroup struct {
	file  string
	views []symbols.View
}

func groupByFile(views []symbols.View) []fileGroup {
	var groups []fileGroup
	index := make(map[string]int)
	for _, v := range views {
		i, ok := index[v.File]
		if !ok {
			i = len(groups)
			index[v.File] = i
			groups = append(groups, fileGroup{file: v.File})
		}
		groups[i].views = append(groups[i].views, v)
	}
	return groups
}

func countViews(views []symbols.View) int {
	n := len(views)
	for _, v := range views {
		n += countViews(v.Children)
	}
	return n
}

func (tf *TreeFormatter) formatTree(sb *strings.Builder, g fileGroup) {
	name := g.file
	if name == "" {
		name = "<source>"
	}
	n := countViews(g.views)
	noun := "symbols"
	if n == 1 {
		noun = "symbol"
	}
	fmt.Fprintf(sb, "%s (%d %s)\n", name, n, noun)

	for i, v := range g.views {
		tf.formatNode(sb, v, "", i == len(g.views)-1, 0)
	}
}

// formatNode recursively formats a tree node
func (tf *TreeFormatter) formatNode(sb *strings.Builder, v symbols.View, prefix string, isLast bool, depth int) {
	if tf.options.MaxDepth > 0 && depth >= tf.options.MaxDepth {
		return
	}

	branch := "├─ "
	childPrefix := prefix + "│  "
	if isLast {
		branch = "└─ "
		childPrefix = prefix + "   "
	}

	sb.WriteString(prefix)
	sb.WriteString(branch)
	sb.WriteString(Label(v))
	if tf.options.ShowLines && v.Line > 0 {
		fmt.Fprintf(sb, " [line %d]", v.Line)
	}
	sb.WriteString("\n")

	for i, child := range v.Children {
		tf.formatNode(sb, child, childPrefix, i == len(v.Children)-1, depth+1)
	}
}

// formatCompact writes one line per root: the root and the names of its
// direct children.
func (tf *TreeFormatter) formatCompact(sb *strings.Builder, g fileGroup) {
	for _, v := range g.views {
		fmt.Fprintf(sb, "%s: %s %s", g.file, v.Kind, v.Name)

		var names []string
		for _, c := range v.Children {
			if c.Name != "" {
				names = append(names, c.Name)
			}
		}
		if len(names) > 0 {
			fmt.Fprintf(sb, " { %s }", strings.Join(names, ", "))
		}
		sb.WriteString("\n")
	}
}

// Label is the one-line description of a symbol: kind, name and the parts
// of its signature the view carries.
func Label(v symbols.View) string {
	var sb strings.Builder
	sb.WriteString(string(v.Kind))
	if v.Name != "" {
		sb.WriteString(" ")
		sb.WriteString(v.Name)
	}

	switch v.Kind {
	case symbols.KindFunction:
		sb.WriteString("(")
		sb.WriteString(strings.Join(v.Parameters, ", "))
		sb.WriteString(")")
		if v.ThrowingStatus != "" && v.ThrowingStatus != string(symbols.ThrowingNone) {
			sb.WriteString(" ")
			sb.WriteString(v.ThrowingStatus)
		}
		if v.ReturnType != "" {
			sb.WriteString(" -> ")
			sb.WriteString(v.ReturnType)
		}
	case symbols.KindVariable, symbols.KindParameter, symbols.KindTypealias:
		if v.Type != "" {
			sb.WriteString(": ")
			sb.WriteString(v.Type)
		}
	}

	if len(v.InheritedTypes) > 0 {
		sb.WriteString(": ")
		sb.WriteString(strings.Join(v.InheritedTypes, ", "))
	}
	return sb.String()
}
