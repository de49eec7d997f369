package commands

import (
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/erraggy/edmoas/internal/cliutil"
	"github.com/erraggy/edmoas/validator"
)

// ValidateFlags contains flags for the validate command
type ValidateFlags struct {
	Strict      bool
	NoWarnings  bool
	Quiet       bool
	SchemaCheck bool
	Format      string
}

// ValidateIssue is the structured form of a validation issue.
type ValidateIssue struct {
	Code     string `json:"code" yaml:"code"`
	Path     string `json:"path" yaml:"path"`
	Message  string `json:"message" yaml:"message"`
	Severity string `json:"severity" yaml:"severity"`
	Line     int    `json:"line,omitempty" yaml:"line,omitempty"`
	Column   int    `json:"column,omitempty" yaml:"column,omitempty"`
}

// ValidateReport is the structured output of the validate command.
type ValidateReport struct {
	Path         string          `json:"path" yaml:"path"`
	Version      string          `json:"version" yaml:"version"`
	Valid        bool            `json:"valid" yaml:"valid"`
	ErrorCount   int             `json:"errorCount" yaml:"errorCount"`
	WarningCount int             `json:"warningCount" yaml:"warningCount"`
	Errors       []ValidateIssue `json:"errors,omitempty" yaml:"errors,omitempty"`
	Warnings     []ValidateIssue `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// SetupValidateFlags creates and configures a FlagSet for the validate command.
// Returns the FlagSet and a ValidateFlags struct with bound flag variables.
func SetupValidateFlags(d *Defaults) (*flag.FlagSet, *ValidateFlags) {
	fs := flag.NewFlagSet("validate", flag.ContinueOnError)
	flags := &ValidateFlags{}

	fs.BoolVar(&flags.Strict, "strict", false, "treat warnings as errors")
	fs.BoolVar(&flags.NoWarnings, "no-warnings", false, "suppress warning messages")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: only output issues, no header or summary")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: only output issues, no header or summary")
	fs.BoolVar(&flags.SchemaCheck, "schema-check", d.SchemaCheck, "check the CSDL shape against the bundled JSON Schema before decoding")
	fs.StringVar(&flags.Format, "format", FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: edmoas validate [flags] <file|->\n\n")
		cliutil.Writef(fs.Output(), "Validate an OData CSDL model.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  edmoas validate trippin.json\n")
		cliutil.Writef(fs.Output(), "  edmoas validate --strict --format json trippin.yaml\n")
		cliutil.Writef(fs.Output(), "  cat trippin.json | edmoas validate -q -\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Model is valid\n")
		cliutil.Writef(fs.Output(), "  1    Model is invalid or could not be read\n")
	}

	return fs, flags
}

// HandleValidate executes the validate command
func HandleValidate(args []string) error {
	defaults, err := LoadDefaults()
	if err != nil {
		return err
	}
	fs, flags := SetupValidateFlags(defaults)
	fs.SetOutput(stderr)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if fs.NArg() != 1 {
		fs.Usage()
		return fmt.Errorf("validate command requires exactly one file path or '-' for stdin")
	}
	specPath := fs.Arg(0)

	if err := ValidateOutputFormat(flags.Format); err != nil {
		return err
	}

	startTime := time.Now()
	read, err := ReadModel(specPath, flags.SchemaCheck)
	if err != nil {
		return err
	}

	v := validator.New()
	v.IncludeWarnings = !flags.NoWarnings
	v.StrictMode = flags.Strict
	result, err := v.Validate(read.Model)
	if err != nil {
		return fmt.Errorf("validating %s: %w", FormatSpecPath(specPath), err)
	}
	totalTime := time.Since(startTime)

	if flags.Format != FormatText {
		if err := OutputStructured(stdout, newValidateReport(specPath, result), flags.Format); err != nil {
			return err
		}
	} else {
		if !flags.Quiet {
			cliutil.Writef(stdout, "OData CSDL Validator\n")
			cliutil.Writef(stdout, "====================\n\n")
			OutputModelHeader(stdout, specPath, read)
			cliutil.Writef(stdout, "Total Time: %v\n\n", totalTime)
		}
		if len(result.Errors) > 0 {
			cliutil.Writef(stdout, "Errors (%d):\n", result.ErrorCount)
			for _, e := range result.Errors {
				cliutil.Writef(stdout, "  %s\n", e.String())
			}
			cliutil.Writef(stdout, "\n")
		}
		if len(result.Warnings) > 0 {
			cliutil.Writef(stdout, "Warnings (%d):\n", result.WarningCount)
			for _, w := range result.Warnings {
				cliutil.Writef(stdout, "  %s\n", w.String())
			}
			cliutil.Writef(stdout, "\n")
		}
		if !flags.Quiet {
			if result.Valid {
				cliutil.Writef(stdout, "✓ Model is valid")
				if result.WarningCount > 0 {
					cliutil.Writef(stdout, " (%d warning(s))", result.WarningCount)
				}
				cliutil.Writef(stdout, "\n")
			} else {
				cliutil.Writef(stdout, "✗ Model is invalid: %d error(s)\n", result.ErrorCount)
			}
		}
	}

	if !result.Valid {
		return modelInvalid(specPath, result.ErrorCount)
	}
	return nil
}

func newValidateReport(specPath string, result *validator.ValidationResult) ValidateReport {
	report := ValidateReport{
		Path:         FormatSpecPath(specPath),
		Version:      result.Version,
		Valid:        result.Valid,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
	}
	for _, e := range result.Errors {
		report.Errors = append(report.Errors, newValidateIssue(e))
	}
	for _, w := range result.Warnings {
		report.Warnings = append(report.Warnings, newValidateIssue(w))
	}
	return report
}

func newValidateIssue(e validator.ValidationError) ValidateIssue {
	return ValidateIssue{
		Code:     e.Code,
		Path:     e.Path,
		Message:  e.Message,
		Severity: e.Severity.String(),
		Line:     e.Line,
		Column:   e.Column,
	}
}
