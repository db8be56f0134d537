package outline

import (
	"strings"

	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/internal/syntax"
)

// materialize produces the symbol for a closed scope. Missing optional pieces
// degrade to empty values; it never fails.
func (b *Builder) materialize(n *syntax.Node, children []symbols.Symbol) symbols.Symbol {
	common := b.common(n, children)

	switch n.Kind {
	case syntax.KindClassDeclaration, syntax.KindProtocolDeclaration:
		return typeDecl(n, common)
	case syntax.KindFunctionDeclaration, syntax.KindProtocolFunctionDeclaration, syntax.KindInitDeclaration:
		return function(n, common)
	case syntax.KindFunctionParameter:
		return parameter(n, common)
	case syntax.KindPropertyDeclaration, syntax.KindProtocolPropertyDeclaration:
		return variable(n, common)
	case syntax.KindTypeParameter:
		return &symbols.Generic{Common: common, Name: n.Text()}
	case syntax.KindEnumEntry:
		return enumCase(common)
	case syntax.KindEnumCaseElement:
		return &symbols.EnumCaseElement{Common: common, Name: fieldText(n, syntax.FieldName)}
	case syntax.KindTypealiasDeclaration:
		common.Children = nil
		return &symbols.Typealias{
			Common:       common,
			Name:         fieldText(n, syntax.FieldName),
			ExistingType: valueText(n),
		}
	case syntax.KindImportDeclaration:
		return importDecl(n, common)
	}
	return &symbols.Mystery{Common: common, Name: string(n.Kind)}
}

func (b *Builder) common(n *syntax.Node, children []symbols.Symbol) symbols.Common {
	modifiers, attributes := modifiersOf(n)
	return symbols.Common{
		Children:   children,
		Comments:   leadingComments(n.LeadingTrivia()),
		Range:      b.sourceRange(n),
		Modifiers:  modifiers,
		Attributes: attributes,
	}
}

func (b *Builder) sourceRange(n *syntax.Node) symbols.SourceRange {
	start := b.tree.Locations.Location(n.Start)
	end := b.tree.Locations.Location(n.End)
	return symbols.SourceRange{
		File:  b.tree.File,
		Start: symbols.Position{Line: start.Line, Column: start.Column, Offset: start.Offset},
		End:   symbols.Position{Line: end.Line, Column: end.Column, Offset: end.Offset},
	}
}

// modifiersOf splits the declaration's modifier list into keyword modifiers and
// raw attribute text. Keywords the grammar keeps outside the modifier list
// (class func, indirect case) are appended.
func modifiersOf(n *syntax.Node) (modifiers, attributes []string) {
	for _, c := range n.ChildrenOfKind(syntax.KindAttribute) {
		attributes = append(attributes, c.Text())
	}
	if list := n.FirstChild(syntax.KindModifiers); list != nil {
		for _, m := range list.Children {
			if m.Kind == syntax.KindAttribute {
				attributes = append(attributes, m.Text())
				continue
			}
			modifiers = append(modifiers, m.Text())
		}
	}
	switch n.Kind {
	case syntax.KindFunctionDeclaration, syntax.KindInitDeclaration:
		if n.Token("class") != nil {
			modifiers = append(modifiers, "class")
		}
	case syntax.KindEnumEntry, syntax.KindClassDeclaration:
		if n.Token("indirect") != nil {
			modifiers = append(modifiers, "indirect")
		}
	}
	return modifiers, attributes
}

func fieldText(n *syntax.Node, field string) string {
	return strings.TrimSpace(n.ChildByField(field).Text())
}

// valueText is the text of the value field, or everything after "=".
func valueText(n *syntax.Node) string {
	if v := n.ChildByField(syntax.FieldValue); v != nil {
		return strings.TrimSpace(v.Text())
	}
	return n.TextAfter("=")
}

var typeKinds = map[string]symbols.Kind{
	"class":     symbols.KindClass,
	"struct":    symbols.KindStruct,
	"enum":      symbols.KindEnum,
	"protocol":  symbols.KindProtocol,
	"extension": symbols.KindExtension,
	"actor":     symbols.KindActor,
}

func typeDecl(n *syntax.Node, common symbols.Common) symbols.Symbol {
	kind := symbols.KindProtocol
	if n.Kind == syntax.KindClassDeclaration {
		kind = symbols.KindClass
		if k, ok := typeKinds[fieldText(n, syntax.FieldDeclarationKind)]; ok {
			kind = k
		}
	}

	var inherited []string
	for _, spec := range n.ChildrenOfKind(syntax.KindInheritanceSpecifier) {
		inherited = append(inherited, strings.TrimSpace(spec.Text()))
	}
	return symbols.NewTypeDecl(kind, symbols.TypeDecl{
		Common:         common,
		Name:           fieldText(n, syntax.FieldName),
		InheritedTypes: inherited,
	})
}

func function(n *syntax.Node, common symbols.Common) symbols.Symbol {
	fn := &symbols.Function{
		Common:         common,
		Name:           fieldText(n, syntax.FieldName),
		ThrowingStatus: throwingStatus(n),
		ReturnType:     fieldText(n, syntax.FieldReturnType),
	}
	if n.Kind == syntax.KindInitDeclaration {
		fn.Name = "init"
		fn.IsInitializer = true
	}

	var params []*symbols.FunctionParameter
	for _, c := range common.Children {
		if p, ok := c.(*symbols.FunctionParameter); ok {
			params = append(params, p)
		}
	}
	fn.Parameters = symbols.DedupeParameters(params)
	return fn
}

func throwingStatus(n *syntax.Node) symbols.ThrowingStatus {
	if t := n.FirstChild(syntax.KindThrows); t != nil {
		return symbols.ParseThrowingStatus(t.Text())
	}
	for _, keyword := range []string{"throws", "rethrows"} {
		if n.Token(keyword) != nil {
			return symbols.ParseThrowingStatus(keyword)
		}
	}
	// the grammar has no typed throws; throws(E) comes back inside an ERROR node
	for _, c := range n.Children {
		if c.Kind != syntax.KindError {
			continue
		}
		if text, ok := effectText(c.Text()); ok {
			return symbols.ParseThrowingStatus(text)
		}
	}
	return symbols.ThrowingNone
}

// effectText returns text from its first throws or rethrows keyword on.
func effectText(text string) (string, bool) {
	for i := 0; i < len(text); i++ {
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}
		for _, keyword := range []string{"rethrows", "throws"} {
			if !strings.HasPrefix(text[i:], keyword) {
				continue
			}
			if end := i + len(keyword); end < len(text) && isIdentByte(text[end]) {
				continue
			}
			return text[i:], true
		}
	}
	return "", false
}

func isIdentByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func parameter(n *syntax.Node, common symbols.Common) symbols.Symbol {
	p := &symbols.FunctionParameter{Common: common}
	if def := n.ChildByField(syntax.FieldDefaultValue); def != nil {
		p.InitializerClause = strings.TrimSpace(def.Text())
	} else {
		p.InitializerClause = n.TextAfter("=")
	}

	decl := n.FirstChild(syntax.KindParameter)
	if decl == nil {
		return p
	}
	external := decl.ChildByField(syntax.FieldExternalName)
	name := fieldText(decl, syntax.FieldName)
	if external != nil {
		p.FirstName = strings.TrimSpace(external.Text())
		p.SecondName = name
	} else {
		p.FirstName = name
	}
	p.Type = decl.TextAfter(":")
	return p
}

func variable(n *syntax.Node, common symbols.Common) symbols.Symbol {
	v := &symbols.Variable{Common: common, LetOrVar: symbols.Var}

	binding := n.FirstChild(syntax.KindPatternBinding)
	if binding == nil {
		// protocol requirements carry a single binding inline
		binding = n
	}

	pattern := binding.ChildByField(syntax.FieldName)
	if pattern == nil && binding != n && len(binding.Children) > 0 {
		pattern = binding.Children[0]
	}
	kw := n.FirstChild(syntax.KindValueBindingPattern)
	if kw == nil && pattern != nil {
		kw = pattern.Find(syntax.KindValueBindingPattern, nil)
	}
	if kw != nil && strings.TrimSpace(kw.Text()) == "let" {
		v.LetOrVar = symbols.Let
	}

	if pattern != nil {
		name := strings.TrimSpace(pattern.Text())
		if kw != nil && kw.Start >= pattern.Start && kw.End <= pattern.End {
			name = strings.TrimSpace(strings.TrimPrefix(name, kw.Text()))
		}
		v.Name = name
	}
	if ann := binding.FirstChild(syntax.KindTypeAnnotation); ann != nil {
		v.TypeAnnotation = ann.TextAfter(":")
	}
	if binding != n {
		v.Initializer = valueText(binding)
	}
	return v
}

func enumCase(common symbols.Common) symbols.Symbol {
	c := &symbols.EnumCase{Common: common}
	for _, child := range common.Children {
		if el, ok := child.(*symbols.EnumCaseElement); ok {
			c.CaseDeclarations = append(c.CaseDeclarations, el)
		}
	}
	return c
}

var importKinds = map[string]bool{
	"typealias": true, "struct": true, "class": true, "enum": true,
	"protocol": true, "let": true, "var": true, "func": true,
}

func importDecl(n *syntax.Node, common symbols.Common) symbols.Symbol {
	imp := &symbols.Import{Common: common}
	for _, c := range n.Children {
		if !c.Named && importKinds[string(c.Kind)] {
			imp.ImportKind = string(c.Kind)
		}
	}
	if id := n.FirstChild(syntax.KindIdentifier); id != nil {
		imp.Path = strings.TrimSpace(id.Text())
	} else {
		imp.Path = n.TextAfter("import")
	}
	return imp
}
