package symbols

import "strings"

// TypeDecl carries the fields shared by class, struct, enum, protocol, extension
// and actor declarations. For extensions Name is the extended type as written.
type TypeDecl struct {
	Common
	Name           string
	InheritedTypes []string
}

func (t *TypeDecl) SymbolName() string  { return t.Name }
func (t *TypeDecl) Inherited() []string { return t.InheritedTypes }

type Class struct{ TypeDecl }
type Struct struct{ TypeDecl }
type Enum struct{ TypeDecl }
type Protocol struct{ TypeDecl }
type Extension struct{ TypeDecl }
type Actor struct{ TypeDecl }

func (*Class) Kind() Kind     { return KindClass }
func (*Struct) Kind() Kind    { return KindStruct }
func (*Enum) Kind() Kind      { return KindEnum }
func (*Protocol) Kind() Kind  { return KindProtocol }
func (*Extension) Kind() Kind { return KindExtension }
func (*Actor) Kind() Kind     { return KindActor }

// NewTypeDecl builds the type-like variant for kind. It returns nil when kind is
// not type-like.
func NewTypeDecl(kind Kind, decl TypeDecl) Symbol {
	switch kind {
	case KindClass:
		return &Class{decl}
	case KindStruct:
		return &Struct{decl}
	case KindEnum:
		return &Enum{decl}
	case KindProtocol:
		return &Protocol{decl}
	case KindExtension:
		return &Extension{decl}
	case KindActor:
		return &Actor{decl}
	}
	return nil
}

// ThrowingStatus is the effect specifier of a function or initializer.
type ThrowingStatus string

const (
	ThrowingNone     ThrowingStatus = "none"
	ThrowingThrows   ThrowingStatus = "throws"
	ThrowingRethrows ThrowingStatus = "rethrows"
	ThrowingUnknown  ThrowingStatus = "unknown"
)

// ParseThrowingStatus maps effect-specifier text to a status. Empty text means
// the specifier is absent; anything unrecognized is ThrowingUnknown.
func ParseThrowingStatus(text string) ThrowingStatus {
	keyword := strings.TrimSpace(text)
	if keyword == "" {
		return ThrowingNone
	}
	// typed throws: throws(MyError)
	if i := strings.IndexAny(keyword, "( \t"); i > 0 {
		keyword = keyword[:i]
	}
	switch keyword {
	case "throws":
		return ThrowingThrows
	case "rethrows":
		return ThrowingRethrows
	default:
		return ThrowingUnknown
	}
}

// staticKeywords are the modifiers that make a member type-level.
var staticKeywords = []string{"static", "class"}

// Function covers free functions, methods, protocol requirements and initializers.
type Function struct {
	Common
	Name           string // "init" for initializers
	Parameters     []*FunctionParameter
	ThrowingStatus ThrowingStatus
	ReturnType     string // empty when the function returns Void implicitly
	IsInitializer  bool
}

func (*Function) Kind() Kind           { return KindFunction }
func (f *Function) SymbolName() string { return f.Name }

// IsStatic reports whether the modifiers contain a static-like keyword.
func (f *Function) IsStatic() bool {
	for _, keyword := range staticKeywords {
		if f.HasModifier(keyword) {
			return true
		}
	}
	return false
}

// FunctionParameter is one entry of a parameter clause.
type FunctionParameter struct {
	Common
	FirstName         string
	SecondName        string // empty when the parameter has a single label
	Type              string
	InitializerClause string // raw default value, empty when absent
}

func (*FunctionParameter) Kind() Kind { return KindParameter }

// SymbolName is the name bound inside the function body.
func (p *FunctionParameter) SymbolName() string {
	if p.SecondName != "" {
		return p.SecondName
	}
	return p.FirstName
}

// Description renders the parameter the way it is declared. Two parameters with
// the same description are the same parameter.
func (p *FunctionParameter) Description() string {
	var b strings.Builder
	b.WriteString(p.FirstName)
	if p.SecondName != "" {
		b.WriteByte(' ')
		b.WriteString(p.SecondName)
	}
	if p.Type != "" {
		b.WriteString(": ")
		b.WriteString(p.Type)
	}
	if p.InitializerClause != "" {
		b.WriteString(" = ")
		b.WriteString(p.InitializerClause)
	}
	return b.String()
}

// DedupeParameters keeps the first parameter of every distinct description,
// preserving declaration order.
func DedupeParameters(params []*FunctionParameter) []*FunctionParameter {
	seen := make(map[string]bool, len(params))
	out := make([]*FunctionParameter, 0, len(params))
	for _, p := range params {
		d := p.Description()
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, p)
	}
	return out
}

// LetOrVar is the binding keyword of a variable declaration.
type LetOrVar string

const (
	Let LetOrVar = "let"
	Var LetOrVar = "var"
)

// Variable is the first binding of a let/var declaration. Name is the raw pattern
// text, so destructuring patterns pass through unanalyzed.
type Variable struct {
	Common
	Name           string
	LetOrVar       LetOrVar
	TypeAnnotation string
	Initializer    string
}

func (*Variable) Kind() Kind           { return KindVariable }
func (v *Variable) SymbolName() string { return v.Name }

// Generic is a generic parameter. Name is the whole clause entry, e.g. "T: Hashable".
type Generic struct {
	Common
	Name string
}

func (*Generic) Kind() Kind           { return KindGeneric }
func (g *Generic) SymbolName() string { return g.Name }

// EnumCaseElement is one element introduced by a case declaration.
type EnumCaseElement struct {
	Common
	Name string
}

func (*EnumCaseElement) Kind() Kind           { return KindEnumCaseElement }
func (e *EnumCaseElement) SymbolName() string { return e.Name }

// MissingCaseName is reported by an EnumCase without elements. Well-formed input
// never produces one.
const MissingCaseName = "_"

// EnumCase groups the elements of a single case declaration.
type EnumCase struct {
	Common
	CaseDeclarations []*EnumCaseElement
}

func (*EnumCase) Kind() Kind { return KindEnumCase }

// SymbolName is the name of the first element child.
func (e *EnumCase) SymbolName() string {
	for _, child := range e.Children {
		if el, ok := child.(*EnumCaseElement); ok {
			return el.Name
		}
	}
	return MissingCaseName
}

// Typealias never has children.
type Typealias struct {
	Common
	Name         string
	ExistingType string
}

func (*Typealias) Kind() Kind           { return KindTypealias }
func (t *Typealias) SymbolName() string { return t.Name }

// Import is an import declaration. ImportKind is the optional declaration-kind
// keyword of a scoped import (import struct Foo.Bar).
type Import struct {
	Common
	Path       string
	ImportKind string
}

func (*Import) Kind() Kind           { return KindImport }
func (i *Import) SymbolName() string { return i.Path }

// Mystery stands in for any declaration without a dedicated model. Name is the
// grammar kind of the original construct.
type Mystery struct {
	Common
	Name string
}

func (*Mystery) Kind() Kind           { return KindMystery }
func (m *Mystery) SymbolName() string { return m.Name }
