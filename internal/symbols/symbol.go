// Package symbols defines the outline tree produced for one source unit.
//
// Every node is a Symbol: one of a closed set of variant structs that all embed
// Common (children, leading comments, source range, modifiers, attributes).
// Symbols are immutable once materialized; the tree is built bottom-up so a
// parent never exists before its children.
package symbols

// Kind tags the concrete variant behind a Symbol.
type Kind string

const (
	KindClass           Kind = "class"
	KindStruct          Kind = "struct"
	KindEnum            Kind = "enum"
	KindProtocol        Kind = "protocol"
	KindExtension       Kind = "extension"
	KindActor           Kind = "actor"
	KindFunction        Kind = "function"
	KindParameter       Kind = "parameter"
	KindVariable        Kind = "variable"
	KindGeneric         Kind = "generic"
	KindEnumCase        Kind = "enum_case"
	KindEnumCaseElement Kind = "enum_case_element"
	KindTypealias       Kind = "typealias"
	KindImport          Kind = "import"
	KindMystery         Kind = "mystery"
)

// Kinds lists every variant tag in declaration order.
var Kinds = []Kind{
	KindClass, KindStruct, KindEnum, KindProtocol, KindExtension, KindActor,
	KindFunction, KindParameter, KindVariable, KindGeneric,
	KindEnumCase, KindEnumCaseElement, KindTypealias, KindImport, KindMystery,
}

// Symbol is one node of the outline tree.
type Symbol interface {
	Kind() Kind
	// Base exposes the fields shared by every variant. Callers must not mutate it.
	Base() *Common
}

// Common holds the capability set shared by every variant.
type Common struct {
	Children   []Symbol
	Comments   []Comment
	Range      SourceRange
	Modifiers  []string
	Attributes []string
}

// Base implements Symbol for every struct embedding Common.
func (c *Common) Base() *Common { return c }

// HasModifier reports whether the declaration carries the given keyword modifier.
func (c *Common) HasModifier(keyword string) bool {
	for _, m := range c.Modifiers {
		if m == keyword {
			return true
		}
	}
	return false
}

// Named is implemented by every variant that carries a name.
type Named interface {
	Symbol
	SymbolName() string
}

// Inheriting is implemented by type-like variants: a name plus the ordered list
// of supertypes and conformances.
type Inheriting interface {
	Named
	Inherited() []string
}

// AsNamed narrows a symbol to Named.
func AsNamed(s Symbol) (Named, bool) {
	n, ok := s.(Named)
	return n, ok
}

// AsInheriting narrows a symbol to Inheriting.
func AsInheriting(s Symbol) (Inheriting, bool) {
	i, ok := s.(Inheriting)
	return i, ok
}

// NameOf returns the symbol's name, or "" for unnamed variants.
func NameOf(s Symbol) string {
	if n, ok := s.(Named); ok {
		return n.SymbolName()
	}
	return ""
}

// Describe renders a short diagnostic label such as "struct A".
func Describe(s Symbol) string {
	if s == nil {
		return "<nil>"
	}
	if name := NameOf(s); name != "" {
		return string(s.Kind()) + " " + name
	}
	return string(s.Kind())
}
