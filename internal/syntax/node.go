// Package syntax adapts tree-sitter Swift trees into a small, position-annotated
// node tree with per-node leading trivia.
package syntax

import "strings"

// Kind is a grammar node kind. Anonymous tokens use their literal text.
type Kind string

// Grammar kinds named by the outline builder.
const (
	KindSourceFile                  Kind = "source_file"
	KindClassDeclaration            Kind = "class_declaration"
	KindProtocolDeclaration         Kind = "protocol_declaration"
	KindFunctionDeclaration         Kind = "function_declaration"
	KindProtocolFunctionDeclaration Kind = "protocol_function_declaration"
	KindInitDeclaration             Kind = "init_declaration"
	KindPropertyDeclaration         Kind = "property_declaration"
	KindProtocolPropertyDeclaration Kind = "protocol_property_declaration"
	KindEnumEntry                   Kind = "enum_entry"
	KindTypealiasDeclaration        Kind = "typealias_declaration"
	KindImportDeclaration           Kind = "import_declaration"
	KindTypeParameters              Kind = "type_parameters"
	KindTypeParameter               Kind = "type_parameter"
	KindParameter                   Kind = "parameter"
	KindModifiers                   Kind = "modifiers"
	KindAttribute                   Kind = "attribute"
	KindValueBindingPattern         Kind = "value_binding_pattern"
	KindTypeAnnotation              Kind = "type_annotation"
	KindInheritanceSpecifier        Kind = "inheritance_specifier"
	KindThrows                      Kind = "throws"
	KindIdentifier                  Kind = "identifier"
	KindComment                     Kind = "comment"
	KindMultilineComment            Kind = "multiline_comment"
	KindError                       Kind = "ERROR"
)

// Synthetic kinds introduced by normalization. tree-sitter-swift inlines these
// groupings into their parent declaration.
const (
	KindEnumCaseElement   Kind = "enum_case_element"
	KindPatternBinding    Kind = "pattern_binding"
	KindFunctionParameter Kind = "function_parameter"
)

// Field names used by the Swift grammar.
const (
	FieldName            = "name"
	FieldDeclarationKind = "declaration_kind"
	FieldBody            = "body"
	FieldReturnType      = "return_type"
	FieldDefaultValue    = "default_value"
	FieldExternalName    = "external_name"
	FieldValue           = "value"
	FieldDataContents    = "data_contents"
	FieldRawValue        = "raw_value"
)

// IsComment reports whether kind is one of the grammar's comment kinds.
func IsComment(kind Kind) bool {
	return kind == KindComment || kind == KindMultilineComment
}

// Node is one syntax node. Comment nodes never appear in Children; they are
// only visible through LeadingTrivia.
type Node struct {
	Kind     Kind
	Field    string // field name inside the parent, empty when unnamed
	Named    bool   // false for keyword and punctuation tokens
	Children []*Node
	Start    int // byte offsets into the tree source, half-open
	End      int

	tree *Tree
}

// Text renders the sub-tree verbatim, without surrounding trivia.
func (n *Node) Text() string {
	if n == nil || n.tree == nil {
		return ""
	}
	return string(n.tree.Source[n.Start:n.End])
}

// LeadingTrivia is the whitespace and comment text owned by the node's first
// token.
func (n *Node) LeadingTrivia() string {
	if n == nil || n.tree == nil {
		return ""
	}
	return string(n.tree.Source[n.tree.leadingStart(n.Start):n.Start])
}

// IsToken reports whether the node is a leaf.
func (n *Node) IsToken() bool { return len(n.Children) == 0 }

// ChildByField returns the first child with the given field name.
func (n *Node) ChildByField(field string) *Node {
	for _, c := range n.Children {
		if c.Field == field {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child with the given field name.
func (n *Node) ChildrenByField(field string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Field == field {
			out = append(out, c)
		}
	}
	return out
}

// FirstChild returns the first child of the given kind.
func (n *Node) FirstChild(kind Kind) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// ChildrenOfKind returns every child of the given kind.
func (n *Node) ChildrenOfKind(kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// Token returns the first anonymous child whose text is text.
func (n *Node) Token(text string) *Node {
	for _, c := range n.Children {
		if !c.Named && string(c.Kind) == text {
			return c
		}
	}
	return nil
}

// Find returns the first descendant of the given kind in pre-order, not
// descending into nodes for which stop returns true.
func (n *Node) Find(kind Kind, stop func(*Node) bool) *Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
		if stop != nil && stop(c) {
			continue
		}
		if found := c.Find(kind, stop); found != nil {
			return found
		}
	}
	return nil
}

// TextAfter renders the children that follow the first anonymous token text,
// trimmed. It is empty when the token is missing.
func (n *Node) TextAfter(text string) string {
	for i, c := range n.Children {
		if !c.Named && string(c.Kind) == text {
			if i+1 >= len(n.Children) {
				return ""
			}
			return strings.TrimSpace(n.tree.slice(n.Children[i+1].Start, n.End))
		}
	}
	return ""
}

// Tree is a converted syntax tree for one source unit.
type Tree struct {
	File      string
	Source    []byte
	Root      *Node
	Locations *LocationConverter
	HasErrors bool

	// ends of every non-comment token with a non-empty span, ascending
	tokenEnds []int
}

// NewTree wires root and its descendants to a tree over source. Token spans
// are taken from the leaves of root.
func NewTree(file string, source []byte, root *Node) *Tree {
	t := &Tree{
		File:      file,
		Source:    source,
		Root:      root,
		Locations: NewLocationConverter(source),
	}
	t.attach(root)
	return t
}

func (t *Tree) attach(n *Node) {
	if n == nil {
		return
	}
	n.tree = t
	if n.IsToken() && n != t.Root {
		if n.End > n.Start {
			t.tokenEnds = append(t.tokenEnds, n.End)
		}
		return
	}
	for _, c := range n.Children {
		t.attach(c)
	}
}

func (t *Tree) slice(start, end int) string {
	return string(t.Source[start:end])
}

// leadingStart finds where the leading trivia of a token starting at offset
// begins. Text up to the first newline after the previous token is that
// token's trailing trivia.
func (t *Tree) leadingStart(offset int) int {
	// tokenEnds is ascending; find the last end <= offset
	lo, hi := 0, len(t.tokenEnds)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if t.tokenEnds[mid] <= offset {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo == 0 {
		return 0
	}
	prev := t.tokenEnds[lo-1]
	if i := strings.IndexByte(t.slice(prev, offset), '\n'); i >= 0 {
		return prev + i
	}
	return offset
}
