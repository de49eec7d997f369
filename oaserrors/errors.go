package oaserrors

import (
	"errors"
	"fmt"
)

// Sentinel errors for use with errors.Is().
// These allow quick checks without type assertions.
var (
	// ErrInvalidArgument indicates a required argument was nil or absent.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrParse indicates a parsing failure occurred.
	ErrParse = errors.New("parse error")

	// ErrReference indicates a reference resolution failure.
	ErrReference = errors.New("reference error")

	// ErrValidation indicates a model validation failure.
	ErrValidation = errors.New("validation error")

	// ErrResourceLimit indicates a resource limit was exceeded.
	ErrResourceLimit = errors.New("resource limit exceeded")

	// ErrConversion indicates a conversion failure.
	ErrConversion = errors.New("conversion error")

	// ErrConfig indicates an invalid configuration.
	ErrConfig = errors.New("configuration error")
)

// ArgumentError reports a caller contract violation: a required argument
// was nil. It is returned before any work is done.
type ArgumentError struct {
	// Argument is the name of the absent argument (e.g., "model")
	Argument string
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ArgumentError) Error() string {
	msg := "invalid argument"
	if e.Argument != "" {
		msg += ": " + e.Argument
	}
	if e.Message != "" {
		msg += ": " + e.Message
	} else if e.Argument != "" {
		msg += " must not be nil"
	}
	return msg
}

// Is reports whether target matches this error type.
func (e *ArgumentError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// NilArgument returns an ArgumentError for the named argument.
func NilArgument(name string) *ArgumentError {
	return &ArgumentError{Argument: name}
}

// ParseError represents a failure to read a CSDL document.
// This includes YAML/JSON deserialization errors and structural issues.
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

// ReferenceError represents a name in a CSDL document that does not resolve,
// such as an $EntityContainer that names no container.
type ReferenceError struct {
	// Ref is the reference string that failed to resolve
	Ref string
	// Kind describes what was being resolved: "container", "alias", "type"
	Kind string
	// Message provides additional context about the failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ReferenceError) Error() string {
	msg := "reference error"
	if e.Kind != "" {
		msg = e.Kind + " " + msg
	}
	if e.Ref != "" {
		msg += ": " + e.Ref
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
func (e *ReferenceError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ReferenceError) Is(target error) bool {
	return target == ErrReference
}

// ValidationError summarizes a model that failed validation.
// Individual structural problems are reported by the validator package;
// this type is returned where a caller asked for a hard failure.
type ValidationError struct {
	// Path identifies the model or element being validated
	Path string
	// ErrorCount is the number of structural errors found
	ErrorCount int
	// Message describes the validation failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ValidationError) Error() string {
	msg := "validation error"
	if e.Path != "" {
		msg += " at " + e.Path
	}
	if e.ErrorCount > 0 {
		msg += fmt.Sprintf(": %d error(s)", e.ErrorCount)
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
func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// ResourceLimitError represents a resource exhaustion condition.
// This occurs when reading exceeds configured limits.
type ResourceLimitError struct {
	// ResourceType identifies what limit was exceeded
	// Common values: "file_size", "nesting_depth"
	ResourceType string
	// Limit is the configured maximum value
	Limit int64
	// Actual is the value that exceeded the limit (may be 0 if unknown)
	Actual int64
	// Message provides additional context
	Message string
}

// Error returns a human-readable error message.
func (e *ResourceLimitError) Error() string {
	msg := "resource limit exceeded"
	if e.ResourceType != "" {
		msg += ": " + e.ResourceType
	}
	if e.Limit > 0 {
		msg += fmt.Sprintf(" (limit: %d", e.Limit)
		if e.Actual > 0 {
			msg += fmt.Sprintf(", actual: %d", e.Actual)
		}
		msg += ")"
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	return msg
}

// Unwrap returns nil as ResourceLimitError has no underlying cause.
func (e *ResourceLimitError) Unwrap() error {
	return nil
}

// Is reports whether target matches this error type.
func (e *ResourceLimitError) Is(target error) bool {
	return target == ErrResourceLimit
}

// ConversionError represents a failure while assembling an OpenAPI document.
// A valid model never produces one; it signals a defect in a fragment generator.
type ConversionError struct {
	// Generator is the name of the fragment generator involved
	Generator string
	// Path is the document location where conversion failed
	// (e.g., "components.schemas.odata.error")
	Path string
	// Message describes the conversion failure
	Message string
	// Cause is the underlying error, if any
	Cause error
}

// Error returns a human-readable error message.
func (e *ConversionError) Error() string {
	msg := "conversion error"
	if e.Generator != "" {
		msg += " (" + e.Generator + ")"
	}
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
func (e *ConversionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error type.
func (e *ConversionError) Is(target error) bool {
	return target == ErrConversion
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
