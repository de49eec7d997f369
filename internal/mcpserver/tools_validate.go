package mcpserver

import (
	"context"

	"github.com/erraggy/edmoas/validator"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

type validateInput struct {
	Model       modelInput `json:"model"                   jsonschema:"The CSDL model to validate"`
	Strict      *bool      `json:"strict,omitempty"        jsonschema:"Treat warnings as errors"`
	NoWarnings  *bool      `json:"no_warnings,omitempty"   jsonschema:"Suppress warnings from output"`
	SchemaCheck *bool      `json:"schema_check,omitempty"  jsonschema:"Check the CSDL shape against the bundled JSON Schema before decoding"`
	Offset      int        `json:"offset,omitempty"        jsonschema:"Skip the first N errors/warnings (for pagination)"`
	Limit       int        `json:"limit,omitempty"         jsonschema:"Maximum number of errors/warnings to return (default 100). Applied independently to errors and warnings arrays."`
}

type validateIssue struct {
	Code    string `json:"code"`
	Path    string `json:"path"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
}

type validateOutput struct {
	Valid        bool            `json:"valid"`
	Version      string          `json:"version"`
	ErrorCount   int             `json:"error_count"`
	WarningCount int             `json:"warning_count"`
	Returned     int             `json:"returned"`
	Errors       []validateIssue `json:"errors,omitempty"`
	Warnings     []validateIssue `json:"warnings,omitempty"`
}

func handleValidate(_ context.Context, _ *mcp.CallToolRequest, input validateInput) (*mcp.CallToolResult, validateOutput, error) {
	// Apply config defaults when input fields are omitted (nil).
	strict := boolOr(input.Strict, cfg.ValidateStrict)
	noWarnings := boolOr(input.NoWarnings, cfg.ValidateNoWarnings)

	read, err := input.Model.resolve(boolOr(input.SchemaCheck, cfg.SchemaCheck))
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	v := validator.New()
	v.StrictMode = strict
	v.IncludeWarnings = !noWarnings
	result, err := v.Validate(read.Model)
	if err != nil {
		return errResult(err), validateOutput{}, nil
	}

	output := validateOutput{
		Valid:        result.Valid,
		Version:      result.Version,
		ErrorCount:   result.ErrorCount,
		WarningCount: result.WarningCount,
	}

	output.Errors = makeSlice[validateIssue](len(result.Errors))
	for _, e := range result.Errors {
		output.Errors = append(output.Errors, newValidateIssue(e))
	}
	output.Warnings = makeSlice[validateIssue](len(result.Warnings))
	for _, w := range result.Warnings {
		output.Warnings = append(output.Warnings, newValidateIssue(w))
	}

	// Paginate errors and warnings.
	output.Errors = paginate(output.Errors, input.Offset, input.Limit)
	output.Warnings = paginate(output.Warnings, input.Offset, input.Limit)
	output.Returned = len(output.Errors) + len(output.Warnings)

	return nil, output, nil
}

func newValidateIssue(e validator.ValidationError) validateIssue {
	return validateIssue{
		Code:    e.Code,
		Path:    e.Path,
		Message: e.Message,
		Line:    e.Line,
	}
}

// boolOr returns *b, or fallback when b is nil.
func boolOr(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
