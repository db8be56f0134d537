package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/warrenburton/Hatch/internal/symbols"
)

func sampleViews() []symbols.View {
	return []symbols.View{
		{
			Kind:           symbols.KindStruct,
			Name:           "User",
			File:           "Sources/User.swift",
			Line:           2,
			InheritedTypes: []string{"Codable"},
			Children: []symbols.View{
				{Kind: symbols.KindVariable, Name: "name", File: "Sources/User.swift", Line: 3, Type: "String"},
				{
					Kind:           symbols.KindFunction,
					Name:           "rename",
					File:           "Sources/User.swift",
					Line:           4,
					Parameters:     []string{"to name: String"},
					ThrowingStatus: "throws",
					ReturnType:     "Bool",
				},
			},
		},
		{Kind: symbols.KindImport, Name: "Foundation", File: "Sources/Store.swift", Line: 1},
	}
}

func TestNewTreeFormatter(t *testing.T) {
	formatter := NewTreeFormatter(FormatterOptions{})
	assert.Equal(t, "tree", formatter.options.Format)

	options := FormatterOptions{Format: "compact", ShowLines: true, MaxDepth: 2}
	assert.Equal(t, options, NewTreeFormatter(options).options)
}

func TestFormatEmpty(t *testing.T) {
	assert.Equal(t, "No symbols\n", NewTreeFormatter(FormatterOptions{}).Format(nil))
}

func TestFormatTree(t *testing.T) {
	output := NewTreeFormatter(FormatterOptions{}).Format(sampleViews())

	expected := strings.Join([]string{
		"Sources/User.swift (3 symbols)",
		"└─ struct User: Codable",
		"   ├─ variable name: String",
		"   └─ function rename(to name: String) throws -> Bool",
		"",
		"Sources/Store.swift (1 symbol)",
		"└─ import Foundation",
		"",
	}, "\n")
	assert.Equal(t, expected, output)
}

func TestFormatTreeBranches(t *testing.T) {
	views := []symbols.View{
		{Kind: symbols.KindClass, Name: "A", File: "A.swift", Children: []symbols.View{
			{Kind: symbols.KindClass, Name: "B", File: "A.swift", Children: []symbols.View{
				{Kind: symbols.KindVariable, Name: "x", File: "A.swift"},
			}},
		}},
		{Kind: symbols.KindClass, Name: "C", File: "A.swift"},
	}
	output := NewTreeFormatter(FormatterOptions{}).Format(views)
	assert.Contains(t, output, "├─ class A\n│  └─ class B\n│     └─ variable x\n└─ class C\n")
}

func TestFormatTreeShowLines(t *testing.T) {
	output := NewTreeFormatter(FormatterOptions{ShowLines: true}).Format(sampleViews())
	assert.Contains(t, output, "struct User: Codable [line 2]")
	assert.Contains(t, output, "import Foundation [line 1]")
}

func TestFormatTreeMaxDepth(t *testing.T) {
	output := NewTreeFormatter(FormatterOptions{MaxDepth: 1}).Format(sampleViews())
	assert.Contains(t, output, "struct User")
	assert.NotContains(t, output, "variable name")
	assert.NotContains(t, output, "rename")
}

func TestFormatCompact(t *testing.T) {
	output := NewTreeFormatter(FormatterOptions{Format: "compact"}).Format(sampleViews())
	assert.Equal(t,
		"Sources/User.swift: struct User { name, rename }\nSources/Store.swift: import Foundation\n",
		output)
}

func TestLabel(t *testing.T) {
	tests := []struct {
		name string
		view symbols.View
		want string
	}{
		{"unnamed", symbols.View{Kind: symbols.KindEnumCase}, "enum_case"},
		{"plain function", symbols.View{Kind: symbols.KindFunction, Name: "run", ThrowingStatus: "none"}, "function run()"},
		{"typealias", symbols.View{Kind: symbols.KindTypealias, Name: "ID", Type: "String"}, "typealias ID: String"},
		{"extension", symbols.View{Kind: symbols.KindExtension, Name: "User", InheritedTypes: []string{"Equatable", "Hashable"}}, "extension User: Equatable, Hashable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Label(tt.view))
		})
	}
}
