package syntax

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, src string) *Tree {
	t.Helper()
	tree, err := Parse(context.Background(), []byte(src), "Test.swift")
	require.NoError(t, err)
	require.NotNil(t, tree.Root)
	return tree
}

func findAll(n *Node, kind Kind) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Kind == kind {
			out = append(out, c)
		}
		out = append(out, findAll(c, kind)...)
	}
	return out
}

func firstOf(t *testing.T, tree *Tree, kind Kind) *Node {
	t.Helper()
	nodes := findAll(tree.Root, kind)
	require.NotEmpty(t, nodes, "no %s in tree", kind)
	return nodes[0]
}

func TestParseStructs(t *testing.T) {
	tree := parse(t, "struct A { struct B {} }")
	assert.Equal(t, KindSourceFile, tree.Root.Kind)
	assert.False(t, tree.HasErrors)
	assert.Equal(t, "Test.swift", tree.File)

	decls := findAll(tree.Root, KindClassDeclaration)
	require.Len(t, decls, 2)
	assert.Equal(t, "struct A { struct B {} }", decls[0].Text())
	assert.Equal(t, "struct B {}", decls[1].Text())
	assert.Equal(t, "A", decls[0].ChildByField(FieldName).Text())
	assert.Equal(t, "struct", decls[0].ChildByField(FieldDeclarationKind).Text())
}

func TestReturnTypeField(t *testing.T) {
	tests := []struct {
		src  string
		kind Kind
		name string
		ret  string
	}{
		{"func f() throws -> Int {}", KindFunctionDeclaration, "f", "Int"},
		{"func g<T>(x: T) -> C<T> { x }", KindFunctionDeclaration, "g", "C<T>"},
		{"func h() -> [Element] { [] }", KindFunctionDeclaration, "h", "[Element]"},
		{"protocol P { func make() -> Self }", KindProtocolFunctionDeclaration, "make", "Self"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fn := firstOf(t, parse(t, tt.src), tt.kind)
			require.NotNil(t, fn.ChildByField(FieldName))
			assert.Equal(t, tt.name, fn.ChildByField(FieldName).Text())
			require.NotNil(t, fn.ChildByField(FieldReturnType))
			assert.Equal(t, tt.ret, fn.ChildByField(FieldReturnType).Text())
		})
	}
}

func TestVoidFunctionHasNoReturnType(t *testing.T) {
	fn := firstOf(t, parse(t, "func f() {}"), KindFunctionDeclaration)
	assert.Nil(t, fn.ChildByField(FieldReturnType))
	assert.Equal(t, "f", fn.ChildByField(FieldName).Text())
}

func TestCommentsBecomeTrivia(t *testing.T) {
	src := "// old note\n\n/// current doc\nfunc f() {}\n"
	tree := parse(t, src)

	assert.Empty(t, findAll(tree.Root, KindComment))
	fn := firstOf(t, tree, KindFunctionDeclaration)
	assert.Equal(t, "func f() {}", fn.Text())
	assert.Equal(t, "// old note\n\n/// current doc\n", fn.LeadingTrivia())
}

func TestTrailingCommentBelongsToPreviousToken(t *testing.T) {
	src := "let a = 1 // about a\n/// about f\nfunc f() {}"
	tree := parse(t, src)

	fn := firstOf(t, tree, KindFunctionDeclaration)
	assert.Equal(t, "\n/// about f\n", fn.LeadingTrivia())

	prop := firstOf(t, tree, KindPropertyDeclaration)
	assert.Equal(t, "", prop.LeadingTrivia())
}

func TestSameLineNodeHasNoLeadingTrivia(t *testing.T) {
	tree := parse(t, "struct A { struct B {} }")
	decls := findAll(tree.Root, KindClassDeclaration)
	require.Len(t, decls, 2)
	assert.Equal(t, "", decls[1].LeadingTrivia())
}

func TestNormalizeEnumElements(t *testing.T) {
	tree := parse(t, "enum E { case a, b(Int), c = 3 }")
	entry := firstOf(t, tree, KindEnumEntry)

	elements := entry.ChildrenOfKind(KindEnumCaseElement)
	require.Len(t, elements, 3)
	assert.Equal(t, "a", elements[0].Text())
	assert.Equal(t, "b(Int)", elements[1].Text())
	assert.Equal(t, "c = 3", elements[2].Text())
	assert.Equal(t, "c", elements[2].ChildByField(FieldName).Text())
}

func TestNormalizeBindings(t *testing.T) {
	tree := parse(t, "var a: Int = 1, b = 2")
	prop := firstOf(t, tree, KindPropertyDeclaration)

	bindings := prop.ChildrenOfKind(KindPatternBinding)
	require.Len(t, bindings, 2)
	assert.Equal(t, "a: Int = 1", bindings[0].Text())
	assert.Equal(t, "b = 2", bindings[1].Text())
	assert.Equal(t, "var", prop.FirstChild(KindValueBindingPattern).Text())
}

func TestNormalizeParameters(t *testing.T) {
	tree := parse(t, "func f(_ a: Int = 0, with b: String) {}")
	fn := firstOf(t, tree, KindFunctionDeclaration)

	params := fn.ChildrenOfKind(KindFunctionParameter)
	require.Len(t, params, 2)
	assert.Equal(t, "_ a: Int = 0", params[0].Text())
	assert.Equal(t, "with b: String", params[1].Text())

	p := params[0].FirstChild(KindParameter)
	require.NotNil(t, p)
	assert.Equal(t, "Int", p.TextAfter(":"))
}

func TestParseIsDeterministic(t *testing.T) {
	src := "class C: Base { func m() {} }"
	a := parse(t, src)
	b := parse(t, src)
	assert.Equal(t, dump(a.Root), dump(b.Root))
}

func dump(n *Node) []string {
	out := []string{string(n.Kind) + ":" + n.Text()}
	for _, c := range n.Children {
		out = append(out, dump(c)...)
	}
	return out
}

func TestParseRecoversFromErrors(t *testing.T) {
	tree := parse(t, "struct A { func }")
	assert.True(t, tree.HasErrors)
}

func TestParseCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	// a canceled parse either fails or completes; it never panics
	assert.NotPanics(t, func() {
		_, _ = Parse(ctx, []byte("struct A {}"), "A.swift")
	})
}

func TestNewTreeSynthetic(t *testing.T) {
	src := []byte("x y")
	root := &Node{Kind: KindSourceFile, Named: true, Start: 0, End: 3, Children: []*Node{
		{Kind: "x", Start: 0, End: 1},
		{Kind: "y", Start: 2, End: 3},
	}}
	tree := NewTree("S.swift", src, root)

	assert.Equal(t, "y", root.Children[1].Text())
	assert.Equal(t, "", root.Children[1].LeadingTrivia())
	assert.Equal(t, "", root.Children[0].LeadingTrivia())
	assert.Equal(t, Location{Line: 1, Column: 3, Offset: 2}, tree.Locations.Location(root.Children[1].Start))
	assert.Nil(t, root.ChildByField(FieldName))
	assert.NotNil(t, root.Token("y"))
}
