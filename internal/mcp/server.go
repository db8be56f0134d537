// Package mcp exposes Swift outlines to MCP clients over stdio.
package mcp

import (
	"context"
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/warrenburton/Hatch/internal/cache"
	"github.com/warrenburton/Hatch/internal/config"
	hatchdebug "github.com/warrenburton/Hatch/internal/debug"
	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/version"
)

// ServerName is reported to clients during initialization.
const ServerName = "hatch-mcp-server"

type toolHandler func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error)

// Server answers outline and symbol queries for one project. Project-wide
// tools rescan on every call; unchanged files come from the outline cache.
type Server struct {
	cfg      *config.Config
	cache    *cache.OutlineCache
	outliner *indexing.Outliner
	server   *mcp.Server
	logger   *DiagnosticLogger
	handlers map[string]toolHandler
}

// NewServer creates a server for cfg. Diagnostics go to a log file so stdio
// stays reserved for the protocol.
func NewServer(cfg *config.Config) (*Server, error) {
	return newServer(cfg, NewDiagnosticLogger(true))
}

func newServer(cfg *config.Config, logger *DiagnosticLogger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("mcp server requires a config")
	}
	hatchdebug.SetMCPMode(true)

	c := cache.NewOutlineCache(cfg.Index.CacheEntries)
	s := &Server{
		cfg:      cfg,
		cache:    c,
		outliner: indexing.NewOutliner(cfg, c),
		logger:   logger,
		handlers: make(map[string]toolHandler),
	}
	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	logger.Printf("MCP server initialized for %s", cfg.Project.Root)
	return s, nil
}

func (s *Server) addTool(tool *mcp.Tool, handler toolHandler) {
	name := tool.Name
	wrapped := func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.recoverFromPanic(name, func() (*mcp.CallToolResult, error) {
			return handler(ctx, req)
		})
	}
	s.handlers[name] = wrapped
	s.server.AddTool(tool, wrapped)
}

func (s *Server) registerTools() {
	s.addTool(&mcp.Tool{
		Name:        "outline",
		Description: "Symbol outline of one Swift file or an inline source snippet: types, functions, properties, enum cases, imports, with ranges, modifiers and doc comments.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "File to outline, absolute or relative to the project root",
				},
				"source": {
					Type:        "string",
					Description: "Swift source to outline instead of a file",
				},
				"file": {
					Type:        "string",
					Description: "Logical file name recorded for inline source (default: input.swift)",
				},
				"flat": {
					Type:        "boolean",
					Description: "Return a depth-first list instead of a tree",
				},
				"comments": {
					Type:        "boolean",
					Description: "Include leading comments (default: project output setting)",
				},
			},
		},
	}, s.handleOutline)

	s.addTool(&mcp.Tool{
		Name:        "find_symbol",
		Description: "Find Swift symbols by name across the project. Ranks exact, prefix, substring, fuzzy and stemmed matches.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query": {
					Type:        "string",
					Description: "Symbol name or fragment",
				},
				"kind": {
					Type:        "string",
					Description: "Restrict to one symbol kind (class, struct, enum, protocol, extension, actor, function, variable, ...)",
				},
				"max": {
					Type:        "integer",
					Description: "Maximum results",
				},
			},
			Required: []string{"query"},
		},
	}, s.handleFindSymbol)

	s.addTool(&mcp.Tool{
		Name:        "stats",
		Description: "Outline statistics for the project: files, symbols per kind, documented symbols, unmodeled declarations.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleStats)

	s.addTool(&mcp.Tool{
		Name:        "info",
		Description: "Server version, build fingerprint and project settings.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleInfo)
}

// recoverFromPanic turns a handler panic into an error result.
func (s *Server) recoverFromPanic(operation string, handler func() (*mcp.CallToolResult, error)) (result *mcp.CallToolResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf("panic in %s: %v\n%s", operation, r, debug.Stack())
			result, err = createErrorResponse(operation, fmt.Errorf("internal error: %v", r))
		}
	}()
	result, err = handler()
	if err != nil {
		s.logger.Errorf("%s: %v", operation, err)
		return createErrorResponse(operation, err)
	}
	return result, nil
}

// Start serves over stdio until ctx is done or the client disconnects.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Printf("Starting MCP server with stdio transport")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Shutdown releases the server's resources.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Printf("MCP server shutdown (cache: %+v)", s.cache.Stats())
	s.cache.Clear()
	return s.logger.Close()
}

// Handler returns the registered handler for a tool, or nil.
func (s *Server) Handler(name string) func(context.Context, *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	h, ok := s.handlers[name]
	if !ok {
		return nil
	}
	return h
}

// Tools lists the registered tool names in order.
func (s *Server) Tools() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
