// Package oaserrors provides structured error types for the edmoas library.
//
// Import path: github.com/erraggy/edmoas/oaserrors
//
// This package enables programmatic error handling via [errors.Is] and [errors.As],
// allowing callers to distinguish between different categories of errors and implement
// appropriate recovery strategies.
//
// # Error Types
//
//   - [ArgumentError]: a required argument (model, settings, context) was nil
//   - [ParseError]: CSDL JSON/YAML decoding failures and structural issues
//   - [ReferenceError]: names in a CSDL document that do not resolve
//   - [ValidationError]: a model failed validation where a hard failure was requested
//   - [ResourceLimitError]: Resource exhaustion (input size)
//   - [ConversionError]: a fragment generator violated a document invariant
//   - [ConfigError]: Invalid settings or input options
//
// # Sentinel Errors
//
// Each error type has a corresponding sentinel error for use with errors.Is():
//
//   - [ErrInvalidArgument]: Matches any [ArgumentError]
//   - [ErrParse]: Matches any [ParseError]
//   - [ErrReference]: Matches any [ReferenceError]
//   - [ErrValidation]: Matches any [ValidationError]
//   - [ErrResourceLimit]: Matches any [ResourceLimitError]
//   - [ErrConversion]: Matches any [ConversionError]
//   - [ErrConfig]: Matches any [ConfigError]
//
// # Usage Examples
//
// Check error category with errors.Is():
//
//	doc, err := converter.Convert(nil)
//	if errors.Is(err, oaserrors.ErrInvalidArgument) {
//	    // a nil model was passed
//	}
//
// Extract error details with errors.As():
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//	    fmt.Printf("bad CSDL in %s at line %d\n", parseErr.Path, parseErr.Line)
//	}
//
// Structural problems in a model are not Go errors: the converter reports
// them inside the generated document as x-ms-edm-model-error extensions.
//
// # Error Chaining
//
// All error types with a Cause field support error chaining via Unwrap(),
// so root causes can be found through the standard error chain:
//
//	var parseErr *oaserrors.ParseError
//	if errors.As(err, &parseErr) {
//	    if errors.Is(parseErr.Cause, os.ErrNotExist) {
//	        // The CSDL file doesn't exist
//	    }
//	}
package oaserrors
