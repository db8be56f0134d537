package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"time"
)

// Error types for the outline extraction system
type ErrorType string

const (
	// Outline errors
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeStructure ErrorType = "structure"
	ErrorTypeSearch    ErrorType = "search"

	// File errors
	ErrorTypeFileNotFound ErrorType = "file_not_found"
	ErrorTypeFileTooLarge ErrorType = "file_too_large"
	ErrorTypePermission   ErrorType = "permission"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"
)

// ErrUnbalancedScope is matched by every UnbalancedScopeError via errors.Is.
var ErrUnbalancedScope = stderrors.New("unbalanced scope")

// ErrInvalidTree is returned when an outline is requested for a missing syntax tree.
var ErrInvalidTree = stderrors.New("no syntax tree")

// UnbalancedScopeError reports a pop without a matching push, or a traversal that
// finished with scopes still open. It signals a visitor/grammar mapping defect,
// never malformed input.
type UnbalancedScopeError struct {
	Type      ErrorType
	FilePath  string
	Symbol    string // description of the symbol whose materialization hit the imbalance
	Depth     int    // open scopes when the imbalance was detected
	Timestamp time.Time
}

// NewUnbalancedScopeError creates a structural error for the given symbol
func NewUnbalancedScopeError(symbol string, depth int) *UnbalancedScopeError {
	return &UnbalancedScopeError{
		Type:      ErrorTypeStructure,
		Symbol:    symbol,
		Depth:     depth,
		Timestamp: time.Now(),
	}
}

// WithFile adds file information to the error
func (e *UnbalancedScopeError) WithFile(path string) *UnbalancedScopeError {
	e.FilePath = path
	return e
}

// Error implements the error interface
func (e *UnbalancedScopeError) Error() string {
	where := ""
	if e.FilePath != "" {
		where = " in " + e.FilePath
	}
	if e.Symbol == "" {
		return fmt.Sprintf("unbalanced scope%s: %d scope(s) left open", where, e.Depth)
	}
	return fmt.Sprintf("unbalanced scope%s: pop at root while materializing %s", where, e.Symbol)
}

// Is reports whether target is ErrUnbalancedScope
func (e *UnbalancedScopeError) Is(target error) bool {
	return target == ErrUnbalancedScope
}

// ParseError represents a failure of the syntax parser itself
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Line       int
	Column     int
	Kind       string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, line, column int, kind string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Line:       line,
		Column:     column,
		Kind:       kind,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Kind == "" {
		return fmt.Sprintf("parse error at %s:%d:%d: %v", e.FilePath, e.Line, e.Column, e.Underlying)
	}
	return fmt.Sprintf("parse error at %s:%d:%d (in %s): %v",
		e.FilePath, e.Line, e.Column, e.Kind, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	return e.Underlying
}

// SearchError represents a symbol search failure
type SearchError struct {
	Type       ErrorType
	Query      string
	Underlying error
	Timestamp  time.Time
}

// NewSearchError creates a new search error
func NewSearchError(query string, err error) *SearchError {
	return &SearchError{
		Type:       ErrorTypeSearch,
		Query:      query,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed for query %q: %v", e.Query, e.Underlying)
}

// Unwrap returns the underlying error
func (e *SearchError) Unwrap() error {
	return e.Underlying
}

// FileError represents a file-related error
type FileError struct {
	Type       ErrorType
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewFileError creates a new file error
func NewFileError(op, path string, err error) *FileError {
	errorType := ErrorTypeFileNotFound
	if stderrors.Is(err, fs.ErrPermission) {
		errorType = ErrorTypePermission
	}

	return &FileError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// NewFileTooLargeError reports a file skipped because of the size limit
func NewFileTooLargeError(path string, size, limit int64) *FileError {
	return &FileError{
		Type:       ErrorTypeFileTooLarge,
		Path:       path,
		Operation:  "read",
		Underlying: fmt.Errorf("size %d exceeds limit %d", size, limit),
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *FileError) Error() string {
	return fmt.Sprintf("file %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

// Unwrap returns the underlying error
func (e *FileError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}
