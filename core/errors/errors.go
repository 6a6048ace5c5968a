package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-exported helpers so callers only need one errors import.
var (
	New = errors.New
	Is  = errors.Is
	As  = errors.As
)

// Sentinel errors matched with errors.Is.
var (
	// ErrInputFormat indicates an input table is missing a required column or is unparsable.
	ErrInputFormat = errors.New("input format error")

	// ErrSchemaMismatch indicates an input table violates the unique item key invariant.
	ErrSchemaMismatch = errors.New("schema mismatch")

	// ErrIO indicates a read or write of an input or output failed.
	ErrIO = errors.New("io error")
)

// InputFormatError describes a malformed input table.
type InputFormatError struct {
	// Source names the input ("inventory", "invoice").
	Source string
	// Line is the 1-based CSV line, or 0 when the problem is not row specific.
	Line int
	// Column is the offending column, if any.
	Column string
	// Value is the offending cell value, if any.
	Value string
	// Message is a human-readable description.
	Message string
}

// Error implements the error interface
func (e *InputFormatError) Error() string {
	var b strings.Builder
	b.WriteString(e.Source)
	if e.Line > 0 {
		fmt.Fprintf(&b, " line %d", e.Line)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %s", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Value != "" {
		fmt.Fprintf(&b, " (got %q)", e.Value)
	}
	return b.String()
}

// Is implements errors.Is support
func (e *InputFormatError) Is(target error) bool {
	return target == ErrInputFormat
}

// NewInputFormatError creates a new InputFormatError
func NewInputFormatError(source string, line int, column, value, message string) *InputFormatError {
	return &InputFormatError{Source: source, Line: line, Column: column, Value: value, Message: message}
}

// SchemaMismatchError reports a duplicated item key within one input table.
type SchemaMismatchError struct {
	Source string
	Key    string
	Lines  []int
}

// Error implements the error interface
func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("%s: item %q is not unique (lines %v)", e.Source, e.Key, e.Lines)
}

// Is implements errors.Is support
func (e *SchemaMismatchError) Is(target error) bool {
	return target == ErrSchemaMismatch
}

// NewSchemaMismatchError creates a new SchemaMismatchError
func NewSchemaMismatchError(source, key string, lines ...int) *SchemaMismatchError {
	return &SchemaMismatchError{Source: source, Key: key, Lines: lines}
}

// IOError wraps a failed read or write of a table location.
type IOError struct {
	Op   string
	Path string
	Err  error
}

// Error implements the error interface
func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IOError) Is(target error) bool {
	return target == ErrIO
}

// WrapIO wraps err as an IOError. It returns nil when err is nil.
func WrapIO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}
