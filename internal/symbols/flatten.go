package symbols

// Flatten returns every symbol of the forest in pre-order.
func Flatten(roots []Symbol) []Symbol {
	var out []Symbol
	Walk(roots, func(s Symbol, _ int) bool {
		out = append(out, s)
		return true
	})
	return out
}

// Walk visits the forest depth-first in pre-order. Roots have depth 0. Returning
// false from fn skips the symbol's children.
func Walk(roots []Symbol, fn func(s Symbol, depth int) bool) {
	walk(roots, 0, fn)
}

func walk(nodes []Symbol, depth int, fn func(Symbol, int) bool) {
	for _, s := range nodes {
		if s == nil {
			continue
		}
		if fn(s, depth) {
			walk(s.Base().Children, depth+1, fn)
		}
	}
}

// Filter returns the flattened symbols for which keep returns true, in pre-order.
func Filter(roots []Symbol, keep func(Symbol) bool) []Symbol {
	var out []Symbol
	Walk(roots, func(s Symbol, _ int) bool {
		if keep(s) {
			out = append(out, s)
		}
		return true
	})
	return out
}

// InheritingSymbols returns every type-like symbol of the forest.
func InheritingSymbols(roots []Symbol) []Inheriting {
	var out []Inheriting
	Walk(roots, func(s Symbol, _ int) bool {
		if i, ok := AsInheriting(s); ok {
			out = append(out, i)
		}
		return true
	})
	return out
}

// MaxDepth returns the depth of the deepest symbol plus one, or 0 for an empty forest.
func MaxDepth(roots []Symbol) int {
	deepest := 0
	Walk(roots, func(_ Symbol, depth int) bool {
		if depth+1 > deepest {
			deepest = depth + 1
		}
		return true
	})
	return deepest
}
