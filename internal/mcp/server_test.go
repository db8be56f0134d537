package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/testhelpers"
)

func newTestServer(t *testing.T, p *testhelpers.Project) *Server {
	t.Helper()
	s, err := newServer(p.Config(), NoOpLogger)
	require.NoError(t, err)
	return s
}

func call(t *testing.T, s *Server, tool string, args interface{}) *mcp.CallToolResult {
	t.Helper()
	handler := s.Handler(tool)
	require.NotNil(t, handler, "tool %s not registered", tool)

	var raw json.RawMessage
	if args != nil {
		data, err := json.Marshal(args)
		require.NoError(t, err)
		raw = data
	}
	result, err := handler(context.Background(), &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{
		Name:      tool,
		Arguments: raw,
	}})
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func decode(t *testing.T, result *mcp.CallToolResult, v interface{}) {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	require.NoError(t, json.Unmarshal([]byte(text.Text), v))
}

func sampleProject(t *testing.T) *testhelpers.Project {
	return testhelpers.NewProject(t).
		File("Sources/User.swift", "/// A user.\nstruct User {\n    let name: String\n    func greet() {}\n}\n").
		File("Sources/Store.swift", "import Foundation\n\nclass UserStore {\n    var users: [User] = []\n}\n")
}

func TestNewServerRequiresConfig(t *testing.T) {
	_, err := newServer(nil, NoOpLogger)
	assert.Error(t, err)
}

func TestToolsRegistered(t *testing.T) {
	s := newTestServer(t, sampleProject(t))
	assert.Equal(t, []string{"find_symbol", "info", "outline", "stats"}, s.Tools())
	assert.Nil(t, s.Handler("search"))
}

func TestOutlineSource(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	result := call(t, s, "outline", map[string]interface{}{
		"source": "enum E { case a, b }",
		"file":   "E.swift",
	})
	require.False(t, result.IsError)

	var resp OutlineResponse
	decode(t, result, &resp)
	assert.Equal(t, "E.swift", resp.File)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, symbols.KindEnum, resp.Symbols[0].Kind)
	assert.Equal(t, "E", resp.Symbols[0].Name)
	assert.Equal(t, "E.swift", resp.Symbols[0].File)
}

func TestOutlineSourceDefaultName(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	var resp OutlineResponse
	decode(t, call(t, s, "outline", map[string]interface{}{"source": "let x = 1"}), &resp)
	assert.Equal(t, DefaultSourceName, resp.File)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, symbols.KindVariable, resp.Symbols[0].Kind)
}

func TestOutlinePath(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	var resp OutlineResponse
	decode(t, call(t, s, "outline", map[string]interface{}{"path": "Sources/User.swift"}), &resp)
	assert.Equal(t, "Sources/User.swift", resp.File)
	require.Len(t, resp.Symbols, 1)
	assert.Equal(t, "User", resp.Symbols[0].Name)
	assert.Len(t, resp.Symbols[0].Children, 2)

	var flat OutlineResponse
	decode(t, call(t, s, "outline", map[string]interface{}{"path": "Sources/User.swift", "flat": true}), &flat)
	assert.Len(t, flat.Symbols, 3)
	assert.True(t, flat.Cached)
}

func TestOutlineErrors(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	tests := []struct {
		name string
		args interface{}
	}{
		{"no input", nil},
		{"missing file", map[string]interface{}{"path": "Sources/Nope.swift"}},
		{"bad arguments", map[string]interface{}{"path": 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := call(t, s, "outline", tt.args)
			assert.True(t, result.IsError)

			var body map[string]interface{}
			decode(t, result, &body)
			assert.Equal(t, "outline", body["operation"])
			assert.NotEmpty(t, body["error"])
		})
	}
}

func TestFindSymbol(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	result := call(t, s, "find_symbol", map[string]interface{}{"query": "User"})
	require.False(t, result.IsError)

	var resp FindSymbolResponse
	decode(t, result, &resp)
	assert.Equal(t, 2, resp.SearchedFiles)
	require.NotEmpty(t, resp.Results)
	assert.Equal(t, "User", resp.Results[0].Name)
	assert.Equal(t, "exact", resp.Results[0].Match)
	assert.Equal(t, "Sources/User.swift", resp.Results[0].File)

	var names []string
	for _, r := range resp.Results {
		names = append(names, r.Name)
	}
	assert.Contains(t, names, "UserStore")
}

func TestFindSymbolKindFilter(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	var resp FindSymbolResponse
	decode(t, call(t, s, "find_symbol", map[string]interface{}{"query": "User", "kind": "Class"}), &resp)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "UserStore", resp.Results[0].Name)
	assert.Equal(t, "prefix", resp.Results[0].Match)

	bad := call(t, s, "find_symbol", map[string]interface{}{"query": "User", "kind": "widget"})
	assert.True(t, bad.IsError)
}

func TestFindSymbolEmptyQuery(t *testing.T) {
	s := newTestServer(t, sampleProject(t))
	assert.True(t, call(t, s, "find_symbol", map[string]interface{}{"query": "  "}).IsError)
	assert.True(t, call(t, s, "find_symbol", nil).IsError)
}

func TestStats(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	var resp struct {
		Files        int            `json:"files"`
		TotalSymbols int            `json:"total_symbols"`
		Documented   int            `json:"documented"`
		ByKind       map[string]int `json:"by_kind"`
	}
	decode(t, call(t, s, "stats", nil), &resp)
	assert.Equal(t, 2, resp.Files)
	assert.Equal(t, 6, resp.TotalSymbols)
	assert.Equal(t, 1, resp.Documented)
	assert.Equal(t, 1, resp.ByKind["struct"])
	assert.Equal(t, 1, resp.ByKind["class"])
	assert.Equal(t, 2, resp.ByKind["variable"])
}

func TestInfo(t *testing.T) {
	p := sampleProject(t)
	s := newTestServer(t, p)

	var resp map[string]interface{}
	decode(t, call(t, s, "info", nil), &resp)
	assert.Equal(t, ServerName, resp["server_name"])
	assert.Equal(t, p.Root, resp["project_root"])
	assert.NotEmpty(t, resp["build_id"])
}

func TestRecoverFromPanic(t *testing.T) {
	s := newTestServer(t, sampleProject(t))

	result, err := s.recoverFromPanic("boom", func() (*mcp.CallToolResult, error) {
		panic("unexpected")
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestShutdown(t *testing.T) {
	s := newTestServer(t, sampleProject(t))
	call(t, s, "stats", nil)
	assert.NoError(t, s.Shutdown(context.Background()))
	assert.Equal(t, 0, s.cache.Len())
}
