package debug

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Component names one area of the outliner that can be traced on its own.
type Component string

const (
	Parse    Component = "PARSE"
	Outline  Component = "OUTLINE"
	Indexing Component = "INDEX"
	Watch    Component = "WATCH"
	MCP      Component = "MCP"
)

// Components lists every traceable component.
var Components = []Component{Parse, Outline, Indexing, Watch, MCP}

// Build flag for debug mode - can be overridden at build time
// go build -ldflags "-X github.com/warrenburton/Hatch/internal/debug.EnableDebug=true"
var EnableDebug = "false"

// MCPMode tracks if we're running in MCP mode (set by main)
var MCPMode = false

var (
	mu      sync.Mutex
	output  io.Writer
	logFile *os.File
	// enabled is nil when every component is traced
	enabled map[Component]bool
	forced  bool
)

// SetMCPMode enables MCP mode which suppresses all debug output to stdio
func SetMCPMode(on bool) {
	MCPMode = on
}

// SetDebugOutput sets a custom writer for debug output.
// Pass nil to disable debug output entirely.
func SetDebugOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enable turns tracing on at runtime for the named components, given as a
// comma separated list ("parse,watch"). "all", "1" and "true" select every
// component; an empty list turns runtime tracing off again.
func Enable(list string) error {
	selected, all, err := ParseComponents(list)
	if err != nil {
		return err
	}

	mu.Lock()
	defer mu.Unlock()
	forced = all || len(selected) > 0
	enabled = selected
	return nil
}

// ParseComponents reads a comma separated component list. all reports an
// "everything" selector, in which case the map is nil.
func ParseComponents(list string) (map[Component]bool, bool, error) {
	list = strings.TrimSpace(list)
	switch strings.ToLower(list) {
	case "":
		return nil, false, nil
	case "1", "true", "all":
		return nil, true, nil
	}

	selected := make(map[Component]bool)
	for _, name := range strings.Split(list, ",") {
		c := Component(strings.ToUpper(strings.TrimSpace(name)))
		if c == "" {
			continue
		}
		if !known(c) {
			return nil, false, fmt.Errorf("unknown debug component %q", strings.TrimSpace(name))
		}
		selected[c] = true
	}
	return selected, false, nil
}

func known(c Component) bool {
	for _, k := range Components {
		if k == c {
			return true
		}
	}
	return false
}

// InitDebugLogFile initializes debug logging to a file.
// Returns the path to the log file, or an error if initialization fails.
// Call CloseDebugLog when done to ensure the file is properly closed.
func InitDebugLogFile() (string, error) {
	mu.Lock()
	defer mu.Unlock()

	logDir := filepath.Join(os.TempDir(), "hatch-debug-logs")
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create debug log directory: %w", err)
	}

	logPath := filepath.Join(logDir, fmt.Sprintf("debug-%s.log", time.Now().Format("2006-01-02T150405")))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", fmt.Errorf("failed to create debug log file: %w", err)
	}

	logFile = file
	output = file
	return logPath, nil
}

// CloseDebugLog closes the debug log file if one is open.
func CloseDebugLog() error {
	mu.Lock()
	defer mu.Unlock()

	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	output = nil
	return err
}

// IsDebugEnabled reports whether any tracing is on. MCP mode always wins.
func IsDebugEnabled() bool {
	if MCPMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}
	mu.Lock()
	on := forced
	mu.Unlock()
	if on {
		return true
	}
	return envSelects("")
}

// IsEnabled reports whether c is traced.
func IsEnabled(c Component) bool {
	if MCPMode {
		return false
	}
	if EnableDebug == "true" {
		return true
	}

	mu.Lock()
	on, sel := forced, enabled
	mu.Unlock()
	if on {
		return sel == nil || sel[c]
	}
	return envSelects(c)
}

// envSelects consults DEBUG. An empty c asks whether anything is selected.
func envSelects(c Component) bool {
	selected, all, err := ParseComponents(os.Getenv("DEBUG"))
	if err != nil {
		return false
	}
	if all {
		return true
	}
	if c == "" {
		return len(selected) > 0
	}
	return selected[c]
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Printf prints debug information only when debug mode is enabled and output is configured
func Printf(format string, args ...interface{}) {
	if !IsDebugEnabled() {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG] "+format, args...)
	}
}

// Log writes one trace line for component c.
func Log(c Component, format string, args ...interface{}) {
	if !IsEnabled(c) {
		return
	}
	if w := writer(); w != nil {
		fmt.Fprintf(w, "[DEBUG:%s] "+format, append([]interface{}{c}, args...)...)
	}
}

func LogParse(format string, args ...interface{})    { Log(Parse, format, args...) }
func LogOutline(format string, args ...interface{})  { Log(Outline, format, args...) }
func LogIndexing(format string, args ...interface{}) { Log(Indexing, format, args...) }
func LogWatch(format string, args ...interface{})    { Log(Watch, format, args...) }
func LogMCP(format string, args ...interface{})      { Log(MCP, format, args...) }

// Fatal records msg in the debug log and returns it as an error. Callers decide
// whether to exit. In MCP mode nothing is written.
func Fatal(format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if !MCPMode {
		if w := writer(); w != nil {
			fmt.Fprintf(w, "[FATAL] %s", msg)
		}
	}
	return fmt.Errorf("fatal error: %s", msg)
}
