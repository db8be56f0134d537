package symbols

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// View is the serializable form of a symbol tree. Only fields relevant to the
// variant are populated.
type View struct {
	Kind       Kind          `json:"kind" yaml:"kind"`
	Name       string        `json:"name,omitempty" yaml:"name,omitempty"`
	File       string        `json:"file,omitempty" yaml:"file,omitempty"`
	Line       int           `json:"line" yaml:"line"`
	Column     int           `json:"column" yaml:"column"`
	EndLine    int           `json:"end_line" yaml:"end_line"`
	EndColumn  int           `json:"end_column" yaml:"end_column"`
	Modifiers  []string      `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Attributes []string      `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Comments   []CommentView `json:"comments,omitempty" yaml:"comments,omitempty"`

	InheritedTypes []string `json:"inherited_types,omitempty" yaml:"inherited_types,omitempty"`

	Parameters     []string `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnType     string   `json:"return_type,omitempty" yaml:"return_type,omitempty"`
	ThrowingStatus string   `json:"throwing_status,omitempty" yaml:"throwing_status,omitempty"`
	IsStatic       bool     `json:"is_static,omitempty" yaml:"is_static,omitempty"`
	IsInitializer  bool     `json:"is_initializer,omitempty" yaml:"is_initializer,omitempty"`

	Type        string `json:"type,omitempty" yaml:"type,omitempty"`
	Binding     string `json:"binding,omitempty" yaml:"binding,omitempty"`
	Initializer string `json:"initializer,omitempty" yaml:"initializer,omitempty"`
	ImportKind  string `json:"import_kind,omitempty" yaml:"import_kind,omitempty"`

	Children []View `json:"children,omitempty" yaml:"children,omitempty"`
}

type CommentView struct {
	Type CommentType `json:"type" yaml:"type"`
	Text string      `json:"text" yaml:"text"`
}

// ToView converts one symbol and its descendants. When includeComments is false
// comment lines are omitted.
func ToView(s Symbol, includeComments bool) View {
	base := s.Base()
	v := View{
		Kind:       s.Kind(),
		Name:       NameOf(s),
		File:       base.Range.File,
		Line:       base.Range.Start.Line,
		Column:     base.Range.Start.Column,
		EndLine:    base.Range.End.Line,
		EndColumn:  base.Range.End.Column,
		Modifiers:  base.Modifiers,
		Attributes: base.Attributes,
	}
	if includeComments {
		for _, c := range base.Comments {
			v.Comments = append(v.Comments, CommentView{Type: c.Type, Text: c.Text})
		}
	}

	if i, ok := AsInheriting(s); ok {
		v.InheritedTypes = i.Inherited()
	}

	switch sym := s.(type) {
	case *Function:
		for _, p := range sym.Parameters {
			v.Parameters = append(v.Parameters, p.Description())
		}
		v.ReturnType = sym.ReturnType
		v.ThrowingStatus = string(sym.ThrowingStatus)
		v.IsStatic = sym.IsStatic()
		v.IsInitializer = sym.IsInitializer
	case *FunctionParameter:
		v.Type = sym.Type
		v.Initializer = sym.InitializerClause
	case *Variable:
		v.Type = sym.TypeAnnotation
		v.Binding = string(sym.LetOrVar)
		v.Initializer = sym.Initializer
	case *Typealias:
		v.Type = sym.ExistingType
	case *Import:
		v.ImportKind = sym.ImportKind
	}

	v.Children = Views(base.Children, includeComments)
	return v
}

// Views converts a forest.
func Views(roots []Symbol, includeComments bool) []View {
	if len(roots) == 0 {
		return nil
	}
	out := make([]View, 0, len(roots))
	for _, s := range roots {
		if s == nil {
			continue
		}
		out = append(out, ToView(s, includeComments))
	}
	return out
}

// FlatViews converts every symbol of the forest without nesting.
func FlatViews(roots []Symbol, includeComments bool) []View {
	flat := Flatten(roots)
	out := make([]View, 0, len(flat))
	for _, s := range flat {
		v := ToView(s, includeComments)
		v.Children = nil
		out = append(out, v)
	}
	return out
}

// Format names an encoding for Encode.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(name string) (Format, error) {
	switch Format(name) {
	case FormatText, FormatJSON, FormatYAML:
		return Format(name), nil
	case "":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q", name)
}

// Encode writes views to w in the given format.
func Encode(w io.Writer, format Format, views []View) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, views, 0)
	}
	return fmt.Errorf("unknown output format %q", format)
}

func writeText(w io.Writer, views []View, depth int) error {
	for _, v := range views {
		indent := strings.Repeat("  ", depth)
		line := fmt.Sprintf("%s%s %s", indent, v.Kind, v.Name)
		if len(v.InheritedTypes) > 0 {
			line += fmt.Sprintf(" : %v", v.InheritedTypes)
		}
		if v.Kind == KindFunction {
			line += fmt.Sprintf(" %v", v.Parameters)
			if v.ReturnType != "" {
				line += " -> " + v.ReturnType
			}
		}
		if v.Type != "" {
			line += ": " + v.Type
		}
		if _, err := fmt.Fprintf(w, "%s  (%s:%d)\n", line, v.File, v.Line); err != nil {
			return err
		}
		if err := writeText(w, v.Children, depth+1); err != nil {
			return err
		}
	}
	return nil
}
