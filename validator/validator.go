package validator

import (
	"fmt"
	"time"

	"github.com/erraggy/edmoas/csdl"
	"github.com/erraggy/edmoas/edm"
	"github.com/erraggy/edmoas/internal/issues"
	"github.com/erraggy/edmoas/internal/severity"
	"github.com/erraggy/edmoas/oaserrors"
)

// Severity indicates the severity level of a validation issue
type Severity = severity.Severity

const (
	// SeverityError indicates a structural problem that makes the model invalid
	SeverityError = severity.SeverityError
	// SeverityWarning indicates content that converts but is likely unintended
	SeverityWarning = severity.SeverityWarning
	// SeverityInfo indicates informational messages
	SeverityInfo = severity.SeverityInfo
	// SeverityCritical indicates critical issues
	SeverityCritical = severity.SeverityCritical
)

// ValidationError represents a single validation issue
type ValidationError = issues.Issue

// ValidationResult contains the results of validating a model
type ValidationResult struct {
	// Valid is true if no errors were found (warnings are allowed unless
	// strict mode is on)
	Valid bool
	// Version is the model's CSDL version
	Version string
	// Errors contains all validation errors in model traversal order
	Errors []ValidationError
	// Warnings contains all validation warnings
	Warnings []ValidationError
	// ErrorCount is the total number of errors
	ErrorCount int
	// WarningCount is the total number of warnings
	WarningCount int
	// LoadTime is the time taken to read the source file, if one was read
	LoadTime time.Duration
	// SourcePath is the file the model was read from, if any
	SourcePath string
	// Model is the validated model
	Model *edm.Model
}

// AsErrors returns the result's errors as Go errors, in order.
func (r *ValidationResult) AsErrors() []error {
	errs := make([]error, len(r.Errors))
	for i, e := range r.Errors {
		errs[i] = e
	}
	return errs
}

// Validator handles EDM model validation
type Validator struct {
	// IncludeWarnings determines whether warnings are collected
	IncludeWarnings bool
	// StrictMode reports warnings as errors
	StrictMode bool
}

// New creates a new Validator instance with default settings
func New() *Validator {
	return &Validator{
		IncludeWarnings: true,
	}
}

// ValidateWithOptions validates a model using functional options.
//
// Example:
//
//	result, err := validator.ValidateWithOptions(
//	    validator.WithFilePath("trippin.json"),
//	    validator.WithStrictMode(true),
//	)
func ValidateWithOptions(opts ...Option) (*ValidationResult, error) {
	cfg, err := applyOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("validator: invalid options: %w", err)
	}

	v := &Validator{
		IncludeWarnings: cfg.includeWarnings,
		StrictMode:      cfg.strictMode,
	}

	if cfg.model != nil {
		return v.Validate(cfg.model)
	}

	read, err := csdl.ReadFile(*cfg.filePath)
	if err != nil {
		return nil, fmt.Errorf("validator: %w", err)
	}
	result, err := v.Validate(read.Model)
	if err != nil {
		return nil, err
	}
	result.LoadTime = read.LoadTime
	return result, nil
}

// Validate checks model and returns every issue found.
// It returns an error only when model is nil.
func (v *Validator) Validate(model *edm.Model) (*ValidationResult, error) {
	if model == nil {
		return nil, fmt.Errorf("validator: %w", oaserrors.NilArgument("model"))
	}

	c := newChecker(model)
	c.run()

	result := &ValidationResult{
		Version:    model.Version,
		SourcePath: model.SourcePath,
		Model:      model,
		Errors:     c.errors,
	}
	if v.IncludeWarnings || v.StrictMode {
		if v.StrictMode {
			for _, w := range c.warnings {
				w.Severity = SeverityError
				result.Errors = append(result.Errors, w)
			}
		} else {
			result.Warnings = c.warnings
		}
	}
	result.ErrorCount = len(result.Errors)
	result.WarningCount = len(result.Warnings)
	result.Valid = result.ErrorCount == 0
	return result, nil
}

// ValidateModel reports whether model is valid and, if not, its errors in
// model traversal order. A nil model is invalid.
//
// ValidateModel satisfies the converter's model validator contract.
func (v *Validator) ValidateModel(model *edm.Model) (bool, []error) {
	result, err := v.Validate(model)
	if err != nil {
		return false, []error{err}
	}
	return result.Valid, result.AsErrors()
}
