// Package scope implements the persistent scope stack used to assemble an
// outline bottom-up.
//
// A Stack is a value. Push and Pop return a new Stack and never modify the
// receiver, so an older Stack value keeps describing the state it was taken at.
package scope

import (
	"github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/symbols"
)

// Materializer turns the symbols accumulated in a scope into the symbol that
// represents the scope in its parent. Returning nil drops the scope.
type Materializer func(children []symbols.Symbol) symbols.Symbol

// entry is a cons cell of the symbols accumulated in one frame, newest first.
type entry struct {
	sym  symbols.Symbol
	prev *entry
	n    int
}

type frame struct {
	parent  *frame
	symbols *entry
	depth   int
}

// Stack is a persistent stack of symbol-accumulation frames. The zero value is
// a stack holding only an empty root frame.
type Stack struct {
	top *frame
}

// New returns a stack with an empty root frame.
func New() Stack {
	return Stack{top: &frame{}}
}

func (s Stack) frame() *frame {
	if s.top == nil {
		return &frame{}
	}
	return s.top
}

// Push opens a nested scope.
func (s Stack) Push() Stack {
	top := s.frame()
	return Stack{top: &frame{parent: top, depth: top.depth + 1}}
}

// Pop closes the innermost scope: materialize receives the scope's symbols in
// insertion order and its result is appended to the parent scope. Popping the
// root frame is an *errors.UnbalancedScopeError naming the materialized symbol;
// the receiver is returned unchanged.
func (s Stack) Pop(materialize Materializer) (Stack, error) {
	top := s.frame()
	sym := materialize(top.list())
	if top.parent == nil {
		return s, errors.NewUnbalancedScopeError(symbols.Describe(sym), top.depth)
	}
	if sym == nil {
		return Stack{top: top.parent}, nil
	}
	return Stack{top: top.parent.append(sym)}, nil
}

// Append adds a symbol to the innermost scope without opening a new one.
func (s Stack) Append(sym symbols.Symbol) Stack {
	if sym == nil {
		return s
	}
	return Stack{top: s.frame().append(sym)}
}

// Current returns the symbols accumulated in the innermost scope, in insertion
// order. The slice is freshly allocated.
func (s Stack) Current() []symbols.Symbol {
	return s.frame().list()
}

// Depth is the number of open scopes above the root.
func (s Stack) Depth() int {
	return s.frame().depth
}

// IsRoot reports whether only the root frame is open.
func (s Stack) IsRoot() bool {
	return s.frame().parent == nil
}

func (f *frame) append(sym symbols.Symbol) *frame {
	n := 1
	if f.symbols != nil {
		n = f.symbols.n + 1
	}
	return &frame{
		parent:  f.parent,
		symbols: &entry{sym: sym, prev: f.symbols, n: n},
		depth:   f.depth,
	}
}

func (f *frame) list() []symbols.Symbol {
	if f.symbols == nil {
		return nil
	}
	out := make([]symbols.Symbol, f.symbols.n)
	i := len(out) - 1
	for e := f.symbols; e != nil; e = e.prev {
		out[i] = e.sym
		i--
	}
	return out
}
