// Package commands provides CLI command handlers for edmoas.
package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/erraggy/edmoas"
	"github.com/erraggy/edmoas/csdl"
	"github.com/erraggy/edmoas/internal/cliutil"
	"github.com/erraggy/edmoas/openapi"
	"go.yaml.in/yaml/v4"
)

// Output format constants
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// StdinFilePath is the special file path used to indicate reading from stdin.
const StdinFilePath = "-"

// Command output streams. Tests replace them.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
	stdin  io.Reader = os.Stdin
)

// ValidateOutputFormat validates an output format and returns an error if invalid.
func ValidateOutputFormat(format string) error {
	if format != FormatText && format != FormatJSON && format != FormatYAML {
		return fmt.Errorf("invalid format '%s'. Valid formats: %s, %s, %s", format, FormatText, FormatJSON, FormatYAML)
	}
	return nil
}

// ValidateDocumentFormat validates a document output format (json or yaml).
func ValidateDocumentFormat(format string) (openapi.Format, error) {
	f, err := openapi.ParseFormat(format)
	if err != nil {
		return "", fmt.Errorf("invalid format '%s'. Valid formats: %s, %s", format, FormatJSON, FormatYAML)
	}
	return f, nil
}

// OutputStructured writes data in the specified format (json or yaml) to w.
func OutputStructured(w io.Writer, data any, format string) error {
	var bytes []byte
	var err error

	switch format {
	case FormatJSON:
		bytes, err = json.MarshalIndent(data, "", "  ")
	case FormatYAML:
		bytes, err = yaml.Marshal(data)
	default:
		return fmt.Errorf("invalid format for structured output: %s", format)
	}

	if err != nil {
		return fmt.Errorf("marshaling to %s: %w", format, err)
	}

	cliutil.Writef(w, "%s\n", bytes)
	return nil
}

// ValidateOutputPath checks that the output path does not overwrite the input
// and is not a symlink.
func ValidateOutputPath(outputPath, inputPath string) error {
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	if inputPath != StdinFilePath {
		absInput, err := filepath.Abs(inputPath)
		if err != nil {
			return fmt.Errorf("invalid input path %s: %w", inputPath, err)
		}
		if absOutput == absInput {
			return fmt.Errorf("output file %s would overwrite input file %s", outputPath, inputPath)
		}
	}
	return RejectSymlinkOutput(filepath.Clean(outputPath))
}

// RejectSymlinkOutput checks if the output path is a symlink and returns an error if so.
func RejectSymlinkOutput(cleanedPath string) error {
	info, err := os.Lstat(cleanedPath)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("commands: checking output path: %w", err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return fmt.Errorf("commands: refusing to write to symlink: %s", cleanedPath)
	}
	return nil
}

// FormatSpecPath returns a display-friendly path for the CSDL input.
// Returns "<stdin>" if the path is StdinFilePath, otherwise returns the path as-is.
func FormatSpecPath(specPath string) string {
	if specPath == StdinFilePath {
		return "<stdin>"
	}
	return specPath
}

// ReadModel reads a CSDL document from a file or, for StdinFilePath, from stdin.
func ReadModel(specPath string, schemaCheck bool) (*csdl.ReadResult, error) {
	opts := []csdl.Option{csdl.WithSchemaCheck(schemaCheck)}
	if specPath == StdinFilePath {
		opts = append(opts, csdl.WithReader(stdin))
	} else {
		opts = append(opts, csdl.WithFilePath(specPath))
	}
	result, err := csdl.ReadWithOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FormatSpecPath(specPath), err)
	}
	return result, nil
}

// OutputModelHeader writes the common input header to w.
func OutputModelHeader(w io.Writer, specPath string, read *csdl.ReadResult) {
	cliutil.Writef(w, "edmoas version: %s\n", edmoas.Version())
	cliutil.Writef(w, "CSDL: %s\n", FormatSpecPath(specPath))
	cliutil.Writef(w, "CSDL Version: %s\n", read.Model.Version)
	cliutil.Writef(w, "Source Size: %s\n", cliutil.FormatBytes(read.SourceSize))
	cliutil.Writef(w, "Load Time: %v\n", read.LoadTime)
}

// OutputDocumentStats writes the generated document statistics to w.
func OutputDocumentStats(w io.Writer, stats openapi.DocumentStats) {
	cliutil.Writef(w, "Paths: %d\n", stats.PathCount)
	cliutil.Writef(w, "Operations: %d\n", stats.OperationCount)
	cliutil.Writef(w, "Schemas: %d\n", stats.SchemaCount)
	cliutil.Writef(w, "Parameters: %d\n", stats.ParameterCount)
	cliutil.Writef(w, "Security Schemes: %d\n", stats.SecuritySchemeCount)
	cliutil.Writef(w, "Tags: %d\n", stats.TagCount)
}
