package syntax

// normalize introduces one grouping node per enum case element, pattern binding
// and function parameter, which the grammar otherwise inlines into the owning
// declaration.
func normalize(n *Node) {
	for _, c := range n.Children {
		normalize(c)
	}
	switch n.Kind {
	case KindEnumEntry:
		n.Children = groupEnumElements(n.Children)
	case KindPropertyDeclaration:
		n.Children = groupBindings(n.Children)
	case KindFunctionDeclaration, KindProtocolFunctionDeclaration, KindInitDeclaration:
		n.Children = groupParameters(n.Children)
	}
}

func group(kind Kind, children []*Node) *Node {
	return &Node{
		Kind:     kind,
		Named:    true,
		Children: children,
		Start:    children[0].Start,
		End:      children[len(children)-1].End,
	}
}

func isPunct(n *Node, text string) bool {
	return !n.Named && string(n.Kind) == text
}

// case a, b(Int), c = 3
func groupEnumElements(children []*Node) []*Node {
	var (
		out     []*Node
		element []*Node
	)
	flush := func() {
		if len(element) > 0 {
			out = append(out, group(KindEnumCaseElement, element))
			element = nil
		}
	}
	for _, c := range children {
		switch {
		case c.Field == FieldName:
			flush()
			element = []*Node{c}
		case len(element) > 0 && (c.Field == FieldDataContents || c.Field == FieldRawValue || isPunct(c, "=")):
			element = append(element, c)
		default:
			flush()
			out = append(out, c)
		}
	}
	flush()
	return out
}

// let a: Int = 1, (b, c) = (2, 3)
func groupBindings(children []*Node) []*Node {
	first := -1
	for i, c := range children {
		if c.Kind == KindValueBindingPattern {
			first = i + 1
			break
		}
	}
	if first < 0 {
		for i, c := range children {
			if c.Field == FieldName {
				first = i
				break
			}
		}
	}
	if first < 0 || first >= len(children) {
		return children
	}

	out := append([]*Node(nil), children[:first]...)
	var binding []*Node
	flush := func() {
		if len(binding) > 0 {
			out = append(out, group(KindPatternBinding, binding))
			binding = nil
		}
	}
	for _, c := range children[first:] {
		if isPunct(c, ",") {
			flush()
			out = append(out, c)
			continue
		}
		binding = append(binding, c)
	}
	flush()
	return out
}

// func f(@escaping _ a: Int = 0, b: String)
func groupParameters(children []*Node) []*Node {
	var (
		out     []*Node
		segment []*Node
		inside  bool
	)
	flush := func() {
		if len(segment) == 0 {
			return
		}
		hasParameter := false
		for _, c := range segment {
			if c.Kind == KindParameter {
				hasParameter = true
				break
			}
		}
		if hasParameter {
			out = append(out, group(KindFunctionParameter, segment))
		} else {
			out = append(out, segment...)
		}
		segment = nil
	}
	for _, c := range children {
		switch {
		case !inside && isPunct(c, "("):
			inside = true
			out = append(out, c)
		case inside && isPunct(c, ")"):
			flush()
			inside = false
			out = append(out, c)
		case inside && isPunct(c, ","):
			flush()
			out = append(out, c)
		case inside:
			segment = append(segment, c)
		default:
			out = append(out, c)
		}
	}
	flush()
	return out
}
