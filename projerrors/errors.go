package projerrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrParse indicates a document or specification could not be decoded.
	ErrParse = errors.New("parse error")

	// ErrPath indicates a malformed field path.
	ErrPath = errors.New("path error")

	// ErrSpec indicates an invalid projection specification.
	ErrSpec = errors.New("specification error")

	// ErrExpression indicates a computed field failed to compile or evaluate.
	ErrExpression = errors.New("expression error")

	// ErrContract indicates the projection tree API was used incorrectly.
	ErrContract = errors.New("contract violation")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ParseError represents a failure to decode a document.
type ParseError struct {
	// Path is the file path or source identifier
	Path string
	// Line is the line number where the error occurred (0 if unknown)
	Line int
	// Column is the column number where the error occurred (0 if unknown)
	Column int
	// Message describes the parsing failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" {
		msg += " in " + e.Path
	}
	if e.Line > 0 {
		msg += fmt.Sprintf(" at line %d", e.Line)
		if e.Column > 0 {
			msg += fmt.Sprintf(", column %d", e.Column)
		}
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

// PathError represents a malformed dotted field path.
type PathError struct {
	// Path is the offending path as written
	Path string
	// Message describes what is wrong with it
	Message string
}

// Error returns a human-readable error message.
func (e *PathError) Error() string {
	msg := "path error"
	if e.Path != "" {
		msg += fmt.Sprintf(" in %q", e.Path)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as PathError has no underlying cause.
func (e *PathError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *PathError) Is(target error) bool {
	return target == ErrPath
}

// SpecError represents a projection specification that cannot be built into a tree.
type SpecError struct {
	// Path is the dotted path of the offending specification entry
	Path string
	// Message describes the problem
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *SpecError) Error() string {
	msg := "specification error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *SpecError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *SpecError) Is(target error) bool {
	return target == ErrSpec
}

// ExpressionError represents a computed field that failed to compile or evaluate.
type ExpressionError struct {
	// Path is the fully qualified path of the computed field (empty while compiling)
	Path string
	// Source is the expression text, if known
	Source string
	// Message describes the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ExpressionError) Error() string {
	msg := "expression error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.Source != "" {
		msg += fmt.Sprintf(" (%s)", e.Source)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ExpressionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ExpressionError) Is(target error) bool {
	return target == ErrExpression
}

// ContractError represents a misuse of the projection tree API.
// It is returned from construction methods and raised as a panic value when
// an already-built tree turns out to be inconsistent.
type ContractError struct {
	// Op is the operation that detected the violation (e.g., "AddExpressionForPath")
	Op string
	// Field is the field name or path involved
	Field string
	// Message describes the violated contract
	Message string
}

// Error returns a human-readable error message.
func (e *ContractError) Error() string {
	msg := "contract violation"
	if e.Op != "" {
		msg += " in " + e.Op
	}
	if e.Field != "" {
		msg += fmt.Sprintf(" for %q", e.Field)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ContractError has no underlying cause.
func (e *ContractError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ContractError) Is(target error) bool {
	return target == ErrContract
}

// ConfigError represents an invalid configuration or input.
// This includes invalid options, missing required inputs, and conflicting settings.
type ConfigError struct {
	// Option is the name of the problematic configuration option
	Option string
	// Value is the invalid value that was provided (may be nil)
	Value any
	// Message describes the configuration error
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConfigError) Error() string {
	msg := "configuration error"
	if e.Option != "" {
		msg += " for " + e.Option
	}
	if e.Value != nil {
		msg += fmt.Sprintf(" (value: %v)", e.Value)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause for error chaining.
func (e *ConfigError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}
