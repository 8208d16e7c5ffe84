package folio

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ParseError represents a fatal error in template or source document syntax.
// Line, Column and LineText are zero values when no source context was available.
type ParseError struct {
	Message  string
	Line     int
	Column   int
	LineText string
	Offset   int
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s\nError occurred near line %d, position %d: %s",
			e.Message, e.Line, e.Column, e.LineText)
	}
	return e.Message
}

// NewParserError builds a ParseError for a failure at byte offset in src.
// An empty src yields an error without position context.
func NewParserError(src string, offset int, format string, args ...interface{}) *ParseError {
	err := &ParseError{
		Message: fmt.Sprintf(format, args...),
		Offset:  offset,
	}
	if src == "" {
		return err
	}
	err.Line, err.Column, err.LineText = locate(src, offset)
	return err
}

// locate returns the 1-based line and column of offset in src, together with
// the full text of that line. CRLF counts as a single line break, and an
// offset on a line terminator reports the end of that line.
func locate(src string, offset int) (line, column int, text string) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}

	line = 1
	lineStart := 0
	for i := 0; i < offset; i++ {
		switch src[i] {
		case '\r':
			// the LF of a CRLF pair ends the line
			if i+1 < len(src) && src[i+1] == '\n' {
				continue
			}
			line++
			lineStart = i + 1
		case '\n':
			line++
			lineStart = i + 1
		}
	}

	lineEnd := strings.IndexAny(src[lineStart:], "\r\n")
	if lineEnd == -1 {
		text = src[lineStart:]
	} else {
		text = src[lineStart : lineStart+lineEnd]
	}
	if offset > lineStart+len(text) {
		offset = lineStart + len(text)
	}
	return line, offset - lineStart + 1, text
}

// DocumentError represents a failure while loading a source document.
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var contextParts []string
	for _, k := range keys {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsParseError checks if an error is, or wraps, a parse error
func IsParseError(err error) bool {
	var parseErr *ParseError
	return errors.As(err, &parseErr)
}

// IsDocumentError checks if an error is, or wraps, a document error
func IsDocumentError(err error) bool {
	var docErr *DocumentError
	return errors.As(err, &docErr)
}
