// Package outline builds the symbol tree of one Swift source unit.
//
// The Builder walks a syntax tree depth-first. Declarations with a dedicated
// model open a scope on entry and materialize their symbol on exit from the
// symbols accumulated inside. Other declarations become Mystery symbols, and
// every remaining node is transparent: its descendants attach to the nearest
// open scope.
package outline

import (
	"context"
	"strings"

	"github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/scope"
	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/internal/syntax"
)

// ParseSource parses source and builds its outline.
func ParseSource(ctx context.Context, source []byte, file string) ([]symbols.Symbol, error) {
	tree, err := syntax.Parse(ctx, source, file)
	if err != nil {
		return nil, err
	}
	return Build(tree)
}

// Build returns the root symbols of tree.
func Build(tree *syntax.Tree) ([]symbols.Symbol, error) {
	return NewBuilder(tree).Build()
}

// Stats counts scope operations of one build.
type Stats struct {
	Pushes    int
	Pops      int
	Mysteries int
	MaxDepth  int
}

// Balanced reports whether every push was matched by a pop.
func (s Stats) Balanced() bool { return s.Pushes == s.Pops }

// Builder owns the scope stack of a single traversal. It is not safe for
// concurrent use; build different trees with different builders.
type Builder struct {
	tree  *syntax.Tree
	stack scope.Stack
	stats Stats
	err   error
	built bool
	roots []symbols.Symbol
}

// NewBuilder prepares a traversal of tree.
func NewBuilder(tree *syntax.Tree) *Builder {
	return &Builder{tree: tree, stack: scope.New()}
}

// Build runs the traversal once; later calls return the same result.
func (b *Builder) Build() ([]symbols.Symbol, error) {
	if b.built {
		return b.roots, b.err
	}
	b.built = true

	if b.tree == nil || b.tree.Root == nil {
		b.err = errors.NewParseError("", 1, 1, "", errors.ErrInvalidTree)
		return nil, b.err
	}

	b.visit(b.tree.Root)
	if b.err == nil && !b.stack.IsRoot() {
		b.err = errors.NewUnbalancedScopeError("", b.stack.Depth()).WithFile(b.tree.File)
	}
	if b.err != nil {
		debug.LogOutline("%s: %v\n", b.tree.File, b.err)
		return nil, b.err
	}

	b.roots = b.stack.Current()
	debug.LogOutline("%s: %d root symbols, %d scopes, %d mysteries\n",
		b.tree.File, len(b.roots), b.stats.Pushes, b.stats.Mysteries)
	return b.roots, nil
}

// Stats reports the scope operations performed so far.
func (b *Builder) Stats() Stats { return b.stats }

type policy int

const (
	transparent policy = iota
	scoped             // push on enter, materialize on exit
	leaf               // push on enter, materialize on exit, children not visited
	mystery
)

// classify decides how the traversal treats n. Only modeled kinds are listed;
// any other declaration is a Mystery and everything else is transparent.
func classify(n *syntax.Node) policy {
	switch n.Kind {
	case syntax.KindClassDeclaration,
		syntax.KindProtocolDeclaration,
		syntax.KindFunctionDeclaration,
		syntax.KindProtocolFunctionDeclaration,
		syntax.KindInitDeclaration,
		syntax.KindProtocolPropertyDeclaration,
		syntax.KindEnumEntry,
		syntax.KindEnumCaseElement,
		syntax.KindTypeParameter,
		syntax.KindFunctionParameter:
		return scoped
	case syntax.KindPropertyDeclaration:
		if n.FirstChild(syntax.KindPatternBinding) == nil {
			return transparent
		}
		return scoped
	case syntax.KindTypealiasDeclaration, syntax.KindImportDeclaration:
		return leaf
	}
	if n.Named && strings.HasSuffix(string(n.Kind), "_declaration") {
		return mystery
	}
	return transparent
}

func (b *Builder) visit(n *syntax.Node) {
	if b.err != nil {
		return
	}
	p := classify(n)
	if p == transparent {
		b.visitChildren(n)
		return
	}

	b.enter()
	if p != leaf {
		b.visitChildren(n)
	}
	if p == mystery {
		b.stats.Mysteries++
	}
	b.exit(n)
}

func (b *Builder) visitChildren(n *syntax.Node) {
	for _, c := range n.Children {
		b.visit(c)
	}
}

func (b *Builder) enter() {
	b.stack = b.stack.Push()
	b.stats.Pushes++
	if d := b.stack.Depth(); d > b.stats.MaxDepth {
		b.stats.MaxDepth = d
	}
}

func (b *Builder) exit(n *syntax.Node) {
	if b.err != nil {
		return
	}
	stack, err := b.stack.Pop(func(children []symbols.Symbol) symbols.Symbol {
		return b.materialize(n, children)
	})
	if err != nil {
		if ub, ok := err.(*errors.UnbalancedScopeError); ok {
			ub.WithFile(b.tree.File)
		}
		b.err = err
		return
	}
	b.stack = stack
	b.stats.Pops++
}
