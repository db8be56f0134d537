package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	hatcherrors "github.com/warrenburton/Hatch/internal/errors"
	"github.com/warrenburton/Hatch/internal/indexing"
	"github.com/warrenburton/Hatch/internal/metrics"
	"github.com/warrenburton/Hatch/internal/search"
	"github.com/warrenburton/Hatch/internal/symbols"
	"github.com/warrenburton/Hatch/internal/version"
)

// DefaultSourceName is the logical file of inline source without a name.
const DefaultSourceName = "input.swift"

type OutlineParams struct {
	Path     string `json:"path,omitempty"`
	Source   string `json:"source,omitempty"`
	File     string `json:"file,omitempty"`
	Flat     bool   `json:"flat,omitempty"`
	Comments *bool  `json:"comments,omitempty"`
}

type FindSymbolParams struct {
	Query string `json:"query"`
	Kind  string `json:"kind,omitempty"`
	Max   int    `json:"max,omitempty"`
}

type OutlineResponse struct {
	File    string         `json:"file"`
	Cached  bool           `json:"cached"`
	Symbols []symbols.View `json:"symbols"`
}

type SymbolMatch struct {
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	File      string  `json:"file"`
	Line      int     `json:"line"`
	Column    int     `json:"column"`
	Container string  `json:"container,omitempty"`
	Score     float64 `json:"score"`
	Match     string  `json:"match"`
}

type FindSymbolResponse struct {
	Query         string        `json:"query"`
	Count         int           `json:"count"`
	Results       []SymbolMatch `json:"results"`
	FailedFiles   int           `json:"failed_files,omitempty"`
	SearchedFiles int           `json:"searched_files"`
}

type StatsResponse struct {
	*metrics.OutlineStats
	DocumentedRatio float64  `json:"documented_ratio"`
	Errors          []string `json:"errors,omitempty"`
}

// decodeArgs unmarshals tool arguments; absent arguments leave v untouched.
func decodeArgs(req *mcp.CallToolRequest, v interface{}) error {
	if req == nil || req.Params == nil || len(req.Params.Arguments) == 0 {
		return nil
	}
	if err := json.Unmarshal(req.Params.Arguments, v); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}

func (s *Server) handleOutline(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params OutlineParams
	if err := decodeArgs(req, &params); err != nil {
		return createErrorResponse("outline", err)
	}

	includeComments := s.cfg.Output.IncludeComments
	if params.Comments != nil {
		includeComments = *params.Comments
	}

	var resp OutlineResponse
	switch {
	case params.Source != "":
		name := params.File
		if name == "" {
			name = DefaultSourceName
		}
		roots, cached, err := s.outliner.OutlineSource(ctx, name, []byte(params.Source))
		if err != nil {
			return createErrorResponse("outline", err)
		}
		resp = OutlineResponse{File: name, Cached: cached, Symbols: views(roots, params.Flat, includeComments)}

	case params.Path != "":
		fo := s.outliner.OutlineFile(ctx, s.resolve(params.Path))
		if fo.Err != nil {
			return createErrorResponse("outline", fo.Err)
		}
		resp = OutlineResponse{File: fo.File, Cached: fo.Cached, Symbols: views(fo.Roots, params.Flat, includeComments)}

	default:
		return createErrorResponse("outline", errors.New("either path or source is required"))
	}

	if resp.Symbols == nil {
		resp.Symbols = []symbols.View{}
	}
	return createJSONResponse(resp)
}

func views(roots []symbols.Symbol, flat, includeComments bool) []symbols.View {
	if flat {
		return symbols.FlatViews(roots, includeComments)
	}
	return symbols.Views(roots, includeComments)
}

// resolve anchors relative paths at the project root.
func (s *Server) resolve(path string) string {
	if filepath.IsAbs(path) || s.cfg.Project.Root == "" {
		return path
	}
	return filepath.Join(s.cfg.Project.Root, path)
}

func (s *Server) handleFindSymbol(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var params FindSymbolParams
	if err := decodeArgs(req, &params); err != nil {
		return createErrorResponse("find_symbol", err)
	}
	if strings.TrimSpace(params.Query) == "" {
		return createErrorResponse("find_symbol", hatcherrors.NewSearchError(params.Query, search.ErrEmptyQuery))
	}

	var kind symbols.Kind
	if params.Kind != "" {
		k, err := parseKind(params.Kind)
		if err != nil {
			return createErrorResponse("find_symbol", err)
		}
		kind = k
	}

	outlines, err := s.outlineProject(ctx)
	if err != nil {
		return createErrorResponse("find_symbol", err)
	}
	ok := indexing.Successful(outlines)

	results, err := search.NewFinder(ok, s.cfg.Search).Find(params.Query, search.Options{
		Kind:       kind,
		MaxResults: params.Max,
	})
	if err != nil {
		return createErrorResponse("find_symbol", err)
	}

	resp := FindSymbolResponse{
		Query:         params.Query,
		Count:         len(results),
		Results:       make([]SymbolMatch, 0, len(results)),
		FailedFiles:   len(outlines) - len(ok),
		SearchedFiles: len(ok),
	}
	for _, r := range results {
		resp.Results = append(resp.Results, SymbolMatch{
			Name:      r.Name,
			Kind:      string(r.Kind),
			File:      r.File,
			Line:      r.Line,
			Column:    r.Column,
			Container: r.Container,
			Score:     r.Score,
			Match:     string(r.Match),
		})
	}
	return createJSONResponse(resp)
}

func parseKind(name string) (symbols.Kind, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, k := range symbols.Kinds {
		if string(k) == name {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown symbol kind %q", name)
}

func (s *Server) handleStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	outlines, err := s.outlineProject(ctx)
	if err != nil {
		return createErrorResponse("stats", err)
	}
	stats := metrics.Compute(outlines)

	resp := StatsResponse{OutlineStats: stats, DocumentedRatio: stats.DocumentedRatio()}
	for _, fo := range outlines {
		if fo.Err != nil {
			resp.Errors = append(resp.Errors, fo.Err.Error())
		}
	}
	return createJSONResponse(resp)
}

func (s *Server) handleInfo(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"server_name":    ServerName,
		"server_version": version.FullInfo(),
		"build_id":       version.BuildID(),
		"go_version":     runtime.Version(),
		"platform":       runtime.GOOS + "/" + runtime.GOARCH,
		"project_root":   s.cfg.Project.Root,
		"include":        s.cfg.Include,
		"workers":        s.cfg.Workers(),
		"tools":          s.Tools(),
		"cache":          s.cache.Stats(),
	})
}

// outlineProject rescans the project. Per-file failures stay on their
// entries; only a failed scan or cancellation is returned as an error.
func (s *Server) outlineProject(ctx context.Context) ([]indexing.FileOutline, error) {
	files, err := indexing.NewScanner(s.cfg).Scan(ctx)
	if err != nil {
		return nil, err
	}
	outlines, err := s.outliner.OutlineFiles(ctx, files)
	if err != nil {
		var multi *hatcherrors.MultiError
		if !errors.As(err, &multi) {
			return nil, err
		}
		s.logger.Printf("outline: %v", err)
	}
	return outlines, nil
}
