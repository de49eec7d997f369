// Package issues provides the issue type shared by model validation and
// conversion diagnostics.
package issues

import (
	"fmt"
	"strings"
	"sync"

	"github.com/erraggy/edmoas/internal/severity"
)

// Issue represents a single problem found in an EDM model.
//
// An Issue is also an error. Its Error form, "<code> : <message> : <location>",
// is the value recorded in the x-ms-edm-model-error extensions of a
// verification-failure document.
type Issue struct {
	// Code is a stable identifier for the rule that failed (e.g., "MissingKey")
	Code string
	// Path is the CSDL target path of the offending element
	// (e.g., "Trippin.Person/UserName")
	Path string
	// Message is a human-readable description of the issue
	Message string
	// Severity indicates the severity level of the issue
	Severity severity.Severity
	// Line is the 1-based line number in the source file (0 if unknown)
	Line int
	// Column is the 1-based column number in the source file (0 if unknown)
	Column int
	// File is the source file path (empty when the model was built in memory)
	File string
}

// Error implements the error interface.
func (i Issue) Error() string {
	code := i.Code
	if code == "" {
		code = "Unknown"
	}
	return fmt.Sprintf("%s : %s : %s", code, i.Message, i.Location())
}

// String returns a formatted, single-line representation for terminal output.
// Uses different symbols based on severity level:
// - "✗" for Error or Critical severity
// - "⚠" for Warning severity
// - "ℹ" for Info severity
func (i Issue) String() string {
	var symbol string
	switch i.Severity {
	case severity.SeverityError, severity.SeverityCritical:
		symbol = "✗"
	case severity.SeverityWarning:
		symbol = "⚠"
	case severity.SeverityInfo:
		symbol = "ℹ"
	default:
		symbol = "?"
	}

	target := i.Path
	if target == "" {
		target = "(model)"
	}
	if i.Code != "" {
		target += " [" + i.Code + "]"
	}
	if i.Line > 0 {
		return fmt.Sprintf("%s %s (line %d, col %d): %s", symbol, target, i.Line, i.Column, i.Message)
	}
	return fmt.Sprintf("%s %s: %s", symbol, target, i.Message)
}

// Location returns the source location in IDE-friendly format.
// Returns "file:line:column" if file is set, "line:column" if only line is set,
// or the target path if location is unknown.
func (i Issue) Location() string {
	if i.Line == 0 {
		return i.Path
	}
	if i.File != "" {
		return fmt.Sprintf("%s:%d:%d", i.File, i.Line, i.Column)
	}
	return fmt.Sprintf("%d:%d", i.Line, i.Column)
}

// HasLocation returns true if this issue has source location information.
func (i Issue) HasLocation() bool {
	return i.Line > 0
}

// Errors returns the issues at or above the given severity as errors,
// preserving order.
func Errors(list []Issue, floor severity.Severity) []error {
	var errs []error
	for _, iss := range list {
		if iss.Severity.AtLeast(floor) {
			errs = append(errs, iss)
		}
	}
	return errs
}

var builderPool = sync.Pool{
	New: func() any {
		return new(strings.Builder)
	},
}

// TargetPath joins a qualified element name and member names into a CSDL
// target path. The first segment is the qualified name; the rest are
// slash-separated members.
// Example: TargetPath("Trippin.Person", "UserName") -> "Trippin.Person/UserName"
func TargetPath(segments ...string) string {
	switch len(segments) {
	case 0:
		return ""
	case 1:
		return segments[0]
	}

	sb := builderPool.Get().(*strings.Builder)
	sb.Reset()
	for i, seg := range segments {
		if i > 0 {
			sb.WriteByte('/')
		}
		sb.WriteString(seg)
	}
	result := sb.String()
	builderPool.Put(sb)
	return result
}
