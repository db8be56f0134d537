package syntax

import (
	"context"
	"fmt"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/swift"

	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/errors"
)

// Parsers are not safe for concurrent use; each Parse call borrows its own.
var parserPool = sync.Pool{
	New: func() any {
		p := sitter.NewParser()
		p.SetLanguage(swift.GetLanguage())
		return p
	},
}

// Parse parses Swift source and converts the result. file is the logical source
// identifier carried into every position.
func Parse(ctx context.Context, source []byte, file string) (*Tree, error) {
	p := parserPool.Get().(*sitter.Parser)
	defer parserPool.Put(p)

	tsTree, err := p.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.NewParseError(file, 1, 1, "", err)
	}
	if tsTree == nil {
		return nil, errors.NewParseError(file, 1, 1, "", fmt.Errorf("parser returned no tree"))
	}
	defer tsTree.Close()

	tsRoot := tsTree.RootNode()
	cursor := sitter.NewTreeCursor(tsRoot)
	defer cursor.Close()

	root := convert(cursor)
	normalize(root)

	tree := NewTree(file, source, root)
	tree.HasErrors = tsRoot.HasError()
	if tree.HasErrors {
		debug.LogParse("%s: syntax errors present, outlining recovered tree\n", file)
	}
	debug.LogParse("%s: parsed %d bytes, %d tokens\n", file, len(source), len(tree.tokenEnds))
	return tree, nil
}

// Fields resolved through the grammar's field table. The cursor's own field
// report is unreliable for some of these: it labels a function's return type
// "name".
var knownFields = []string{
	FieldName,
	FieldDeclarationKind,
	FieldBody,
	FieldReturnType,
	FieldDefaultValue,
	FieldExternalName,
	FieldValue,
	FieldDataContents,
	FieldRawValue,
}

type span struct {
	start, end uint32
	kind       string
}

// convert copies the node under the cursor and its descendants, dropping
// comment nodes. The cursor is left on the node it started on.
func convert(c *sitter.TreeCursor) *Node {
	ts := c.CurrentNode()
	n := &Node{
		Kind:  Kind(ts.Type()),
		Field: c.CurrentFieldName(),
		Named: ts.IsNamed(),
		Start: int(ts.StartByte()),
		End:   int(ts.EndByte()),
	}
	if !c.GoToFirstChild() {
		return n
	}
	var raw []span
	for {
		child := c.CurrentNode()
		if !IsComment(Kind(child.Type())) {
			n.Children = append(n.Children, convert(c))
			raw = append(raw, span{child.StartByte(), child.EndByte(), child.Type()})
		}
		if !c.GoToNextSibling() {
			break
		}
	}
	c.GoToParent()
	resolveFields(ts, n.Children, raw)

	// a node only spans its non-comment tokens
	if len(n.Children) > 0 && n.Kind != KindSourceFile {
		n.Start = n.Children[0].Start
		n.End = n.Children[len(n.Children)-1].End
	}
	return n
}

// resolveFields relabels children with the field the grammar assigns them.
// ChildByFieldName yields the first child of a field, so a cursor label of the
// same field on an earlier child is dropped; later ones are kept since a field
// may repeat.
func resolveFields(ts *sitter.Node, children []*Node, raw []span) {
	for _, field := range knownFields {
		want := ts.ChildByFieldName(field)
		if want == nil {
			continue
		}
		at := -1
		for i, r := range raw {
			if r.start == want.StartByte() && r.end == want.EndByte() && r.kind == want.Type() {
				at = i
				break
			}
		}
		if at < 0 {
			continue
		}
		for i := 0; i < at; i++ {
			if children[i].Field == field {
				children[i].Field = ""
			}
		}
		children[at].Field = field
	}
}
