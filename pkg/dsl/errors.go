package dsl

import "fmt"

// Position tracks a source location for diagnostics.
type Position struct {
	Line   int // 1-based line number
	Column int // 1-based column number
}

// ParseError is a recoverable scanner or builder diagnostic.
// The front end never aborts on one; it records the error and continues,
// so a single ParseError describes exactly one local problem.
type ParseError struct {
	Message string
	Pos     Position
}

func (e *ParseError) Error() string {
	if e.Pos.Line > 0 {
		return fmt.Sprintf("line %d, col %d: %s", e.Pos.Line, e.Pos.Column, e.Message)
	}
	return e.Message
}

func errorf(line, col int, format string, args ...any) *ParseError {
	return &ParseError{
		Message: fmt.Sprintf(format, args...),
		Pos:     Position{Line: line, Column: col},
	}
}
