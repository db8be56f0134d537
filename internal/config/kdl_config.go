package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// DefaultKDL is the template written by `hatch config init`.
const DefaultKDL = `// Hatch configuration
project {
    root "."
}

index {
    max_file_size "4MB"
    respect_gitignore true
    watch_debounce_ms 300
    cache_entries 2048
}

performance {
    parallel_file_workers 0 // 0 = NumCPU-1
}

search {
    max_results 50
    enable_fuzzy true
    fuzzy_threshold 0.8
    stemming true
}

output {
    format "text"
    flat false
    include_comments true
}

include "**/*.swift"

exclude {
    "**/.git/**"
    "**/.build/**"
    "**/.swiftpm/**"
    "**/DerivedData/**"
    "**/Pods/**"
    "**/Carthage/**"
}
`

// LoadKDL loads .hatch.kdl from projectRoot. A missing file yields (nil, nil).
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, KDLFileName)
	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", KDLFileName, err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}
	resolveRoot(cfg, projectRoot)
	return cfg, nil
}

func parseKDL(content string) (*Config, error) {
	cfg := Default("")
	cfg.Project = Project{}
	cfg.Include = nil

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children { // project { root "." name "foo" }
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "name", func(v string) { cfg.Project.Name = v })
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := parseSize(s); err == nil {
							cfg.Index.MaxFileSize = sz
						} else {
							log.Printf("WARNING: invalid size %q for 'max_file_size' in KDL config", s)
						}
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.FollowSymlinks = b
					}
				case "respect_gitignore":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Index.RespectGitignore = b
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.WatchDebounceMs = v
					}
				case "cache_entries":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.CacheEntries = v
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				if nodeName(cn) == "parallel_file_workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelFileWorkers = v
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_results":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxResults = v
					}
				case "enable_fuzzy":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Search.EnableFuzzy = b
					}
				case "fuzzy_threshold":
					if v, ok := firstFloatArg(cn); ok {
						cfg.Search.FuzzyThreshold = v
					}
				case "stemming":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Search.Stemming = b
					}
				}
			}
		case "output":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "format":
					if s, ok := firstStringArg(cn); ok {
						cfg.Output.Format = s
					}
				case "flat":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.Flat = b
					}
				case "include_comments":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Output.IncludeComments = b
					}
				}
			}
		case "include":
			cfg.Include = append(cfg.Include, collectStringArgs(n)...)
		case "exclude":
			// an exclude block replaces the default exclusions
			cfg.Exclude = collectStringArgs(n)
		}
	}

	if len(cfg.Include) == 0 {
		cfg.Include = []string{"**/*.swift"}
	}
	return cfg, nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return parseBool(s), true
	}
	return false, false
}

func firstFloatArg(n *document.Node) (float64, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case float64:
		return v, true
	case int64:
		return float64(v), true
	default:
		log.Printf("WARNING: invalid float value for '%s' in KDL config, expected number but got %T", nodeName(n), n.Arguments[0].Value)
		return 0, false
	}
}

// collectStringArgs accepts both the inline form (include "a" "b") and the
// block form, where each child node name is a pattern.
func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	if len(out) == 0 && len(n.Children) > 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}

// parseSize handles size strings like "10MB", "500KB", "1GB".
func parseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(strings.TrimSpace(numStr), 10, 64)
	if err != nil {
		return 0, err
	}
	return num * multiplier, nil
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "yes" || s == "1" || s == "on"
}
